package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	fp := NewFileProcessor(64, errors.Discard())

	t.Run("text file", func(t *testing.T) {
		doc, err := fp.ReadDocument(write("cv.txt", "Jane Doe"))
		if err != nil {
			t.Fatal(err)
		}
		if doc.Kind != types.KindText || doc.FileName != "cv.txt" || string(doc.Content) != "Jane Doe" {
			t.Errorf("unexpected document %+v", doc)
		}
	})

	t.Run("pdf kind from extension", func(t *testing.T) {
		doc, err := fp.ReadDocument(write("cv.pdf", "%PDF-1.4"))
		if err != nil {
			t.Fatal(err)
		}
		if doc.Kind != types.KindPDF {
			t.Errorf("kind = %q, want pdf", doc.Kind)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fp.ReadDocument(filepath.Join(dir, "absent.pdf"))
		if !errors.HasCode(err, errors.ErrCodeFileNotFound) {
			t.Errorf("expected FILE_NOT_FOUND, got %v", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		_, err := fp.ReadDocument(write("big.txt", strings.Repeat("x", 65)))
		if !errors.Is(err, errors.ErrorTypeValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := fp.ReadDocument(dir)
		if !errors.Is(err, errors.ErrorTypeValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestHandleOutput(t *testing.T) {
	result := &types.AnalysisResult{DocumentType: types.LabelResume, ATSScore: 81, Rating: types.RatingExcellent}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		oh := NewOutputHandler(&buf, nil)
		if err := oh.HandleOutput(result, CommandConfig{OutputFormat: "json"}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"atsScore": 81`) {
			t.Errorf("unexpected output %s", buf.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "reports", "cv.md")
		oh := NewOutputHandler(&bytes.Buffer{}, errors.Discard())
		if err := oh.HandleOutput(result, CommandConfig{OutputFile: out, OutputFormat: "markdown"}); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "# Resume Analysis") {
			t.Errorf("unexpected file content %s", data)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		oh := NewOutputHandler(&bytes.Buffer{}, nil)
		err := oh.HandleOutput(result, CommandConfig{OutputFormat: "xml"})
		if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("expected INVALID_FORMAT, got %v", err)
		}
	})
}

func TestRunBatch(t *testing.T) {
	t.Run("keeps order and bounds concurrency", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}

		out, err := RunBatch(context.Background(), items, 3, func(_ context.Context, n int) (string, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return fmt.Sprintf("#%d", n), nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(out, ",") != "#1,#2,#3,#4,#5,#6,#7,#8" {
			t.Errorf("results out of order: %v", out)
		}
		if peak.Load() > 3 {
			t.Errorf("peak concurrency %d exceeds limit", peak.Load())
		}
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := RunBatch(context.Background(), []string{"ok", "bad", "ok"}, 1, func(_ context.Context, s string) (int, error) {
			if s == "bad" {
				return 0, fmt.Errorf("cannot analyze %s", s)
			}
			return len(s), nil
		})
		if err == nil || !strings.Contains(err.Error(), "cannot analyze bad") {
			t.Errorf("expected batch error, got %v", err)
		}
	})
}
