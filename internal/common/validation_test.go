package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{
			name:          "xml",
			format:        "xml",
			supported:     supported,
			expectedError: "unsupported output format 'xml'. Supported formats: [json text markdown]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			supported:     supported,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json text markdown]",
		},
		{
			name:          "empty format",
			format:        "",
			supported:     supported,
			expectedError: "unsupported output format ''. Supported formats: [json text markdown]",
		},
		{name: "no restrictions", format: "xml", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.expectedError {
				t.Errorf("Expected error '%s', got '%v'", tt.expectedError, err)
			}
		})
	}
}

func TestValidateConcurrency(t *testing.T) {
	for n, ok := range map[int]bool{0: false, 1: true, 8: true, 64: true, 65: false, -3: false} {
		if err := ValidateConcurrency(n); (err == nil) != ok {
			t.Errorf("ValidateConcurrency(%d) error = %v, want ok=%v", n, err, ok)
		}
	}
}

func TestValidateAnalyzeInputs(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		s3Key   string
		wantErr bool
	}{
		{name: "files", files: []string{"a.pdf", "b.docx"}},
		{name: "s3 key", s3Key: "uploads/a.pdf"},
		{name: "nothing", wantErr: true},
		{name: "both", files: []string{"a.pdf"}, s3Key: "uploads/a.pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnalyzeInputs(tt.files, tt.s3Key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAnalyzeInputs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
