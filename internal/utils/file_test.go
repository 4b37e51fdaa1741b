package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "regular file", path: file},
		{name: "empty name", path: "", wantErr: true},
		{name: "missing", path: filepath.Join(dir, "nope.pdf"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := StatInputFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StatInputFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && info.Size() != 5 {
				t.Errorf("size = %d, want 5", info.Size())
			}
		})
	}
}

func TestEnsureOutputDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "2025", "out.json")
	if err := EnsureOutputDir(target); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
	if err := EnsureOutputDir(""); err != nil {
		t.Errorf("stdout should be valid: %v", err)
	}
}

func TestIsSupportedDocument(t *testing.T) {
	for name, want := range map[string]bool{
		"cv.PDF":      true,
		"cv.docx":     true,
		"cv.md":       true,
		"cv.doc":      false,
		"cv":          false,
		"archive.zip": false,
	} {
		if got := IsSupportedDocument(name); got != want {
			t.Errorf("IsSupportedDocument(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:              "512 B",
		2048:             "2.0 KB",
		10 * 1024 * 1024: "10.0 MB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}
