package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateConcurrency bounds the number of files analyzed at once.
func ValidateConcurrency(n int) error {
	if n < 1 || n > 64 {
		return fmt.Errorf("concurrency must be between 1 and 64, got %d", n)
	}
	return nil
}

// ValidateAnalyzeInputs checks that exactly one document source is given.
func ValidateAnalyzeInputs(files []string, s3Key string) error {
	switch {
	case len(files) == 0 && s3Key == "":
		return fmt.Errorf("provide at least one file or --s3-key")
	case len(files) > 0 && s3Key != "":
		return fmt.Errorf("files and --s3-key cannot be combined")
	}
	return nil
}
