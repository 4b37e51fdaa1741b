// Package extract turns PDF, DOCX and plain-text documents into normalized text.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Extractor converts raw document bytes into plain text
type Extractor struct {
	timeout time.Duration
	logger  *errors.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithTimeout bounds each library call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

func WithLogger(logger *errors.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized text of doc. Every failure is an extraction
// error; a document that decodes but contains no text is a failure too.
func (e *Extractor) Extract(ctx context.Context, doc types.RawDocument) (string, error) {
	if len(doc.Content) == 0 {
		return "", errors.NewExtractionError(errors.ErrCodeEmptyDocument, "document is empty", nil).
			WithContext("file", doc.FileName)
	}

	var decode func([]byte) (string, error)
	switch doc.Kind {
	case types.KindPDF:
		decode = pdfText
	case types.KindDOCX:
		decode = docxText
	case types.KindText:
		decode = plainText
	default:
		return "", errors.NewExtractionError(errors.ErrCodeUnsupportedDocument,
			fmt.Sprintf("unsupported document kind %q", doc.Kind), nil).
			WithContext("file", doc.FileName)
	}

	start := time.Now()
	raw, err := e.run(ctx, doc, decode)
	if err != nil {
		if appErr, ok := errors.As(err); ok && doc.FileName != "" {
			appErr.WithContext("file", doc.FileName)
		}
		return "", err
	}

	text := Normalize(raw)
	if strings.TrimSpace(text) == "" {
		return "", errors.NewExtractionError(errors.ErrCodeNoText,
			"document contains no extractable text", nil).
			WithContext("file", doc.FileName).
			WithContext("kind", string(doc.Kind))
	}

	e.logger.Debug("Extracted document text",
		"kind", doc.Kind,
		"file", doc.FileName,
		"bytes", len(doc.Content),
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds())

	return text, nil
}

type decodeResult struct {
	text string
	err  error
}

// run executes decode with panic recovery and the configured timeout. Only
// the extractor's own deadline is an extraction timeout; a cancelled caller
// gets a CANCELED internal error.
func (e *Extractor) run(parent context.Context, doc types.RawDocument, decode func([]byte) (string, error)) (string, error) {
	if err := parent.Err(); err != nil {
		return "", canceled(err)
	}
	ctx := parent
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, e.timeout)
		defer cancel()
	}

	done := make(chan decodeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- decodeResult{err: errors.NewExtractionError(errors.ErrCodeCorruptDocument,
					fmt.Sprintf("%s decoder failed", doc.Kind), fmt.Errorf("panic: %v", r))}
			}
		}()
		text, err := decode(doc.Content)
		done <- decodeResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		if err := parent.Err(); err != nil {
			return "", canceled(err)
		}
		return "", errors.NewExtractionError(errors.ErrCodeExtractionTimeout,
			"text extraction did not finish in time", ctx.Err())
	}
}

func canceled(cause error) error {
	return errors.NewInternalError(errors.ErrCodeCanceled, "text extraction was cancelled", cause)
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument, "text document is not valid UTF-8", nil)
	}
	return string(data), nil
}
