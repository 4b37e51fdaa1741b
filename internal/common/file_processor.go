package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumelens/internal/errors"
	"resumelens/internal/types"
	"resumelens/internal/utils"
)

// FileProcessor reads local documents and writes output files.
type FileProcessor struct {
	maxBytes int64
	logger   *errors.Logger
}

// NewFileProcessor returns a processor that refuses files larger than
// maxBytes. Zero means no limit.
func NewFileProcessor(maxBytes int64, logger *errors.Logger) *FileProcessor {
	return &FileProcessor{maxBytes: maxBytes, logger: logger}
}

// ReadDocument loads filename as a RawDocument with its kind taken from the
// extension. Unknown extensions are read anyway and rejected by the extractor.
func (fp *FileProcessor) ReadDocument(filename string) (types.RawDocument, error) {
	info, err := utils.StatInputFile(filename)
	if err != nil {
		if filename != "" && !fileExists(filename) {
			return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return types.RawDocument{}, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if fp.maxBytes > 0 && info.Size() > fp.maxBytes {
		return types.RawDocument{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("File %s is %s, the limit is %s", filename,
				utils.FormatFileSize(info.Size()), utils.FormatFileSize(fp.maxBytes)), nil)
	}
	if !utils.IsSupportedDocument(filename) {
		fp.logger.Warn("File extension is not a known document type", "filename", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return types.RawDocument{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	fp.logger.Debug("Read document", "filename", filename, "size", utils.FormatFileSize(info.Size()))
	return types.RawDocument{
		Content:  content,
		Kind:     types.DetectKind(filename, ""),
		FileName: filepath.Base(filename),
	}, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := utils.EnsureOutputDir(filename); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED",
			fmt.Sprintf("Cannot create directory for: %s", filename), err)
	}
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
