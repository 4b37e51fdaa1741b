package extract

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"resumelens/internal/errors"
)

var pdfMagic = []byte("%PDF-")

func pdfText(data []byte) (string, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument, "missing PDF header", nil)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isEncrypted(err) {
			return "", errors.NewExtractionError(errors.ErrCodeEncryptedDocument, "PDF is password protected", err)
		}
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument, "failed to open PDF", err)
	}

	pages := reader.NumPage()
	var sb strings.Builder
	var failed int
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			failed++
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}

	// A document where every page failed is unreadable, not empty.
	if pages > 0 && failed == pages {
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument,
			fmt.Sprintf("could not read any of %d pages", pages), nil)
	}
	return sb.String(), nil
}

func isEncrypted(err error) bool {
	return stderrors.Is(err, pdf.ErrInvalidPassword) ||
		strings.Contains(strings.ToLower(err.Error()), "encrypt")
}
