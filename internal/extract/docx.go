package extract

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"resumelens/internal/errors"
)

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument, "failed to open DOCX", err)
	}
	defer func() { _ = doc.Close() }()

	text, err := wordMLText(doc.Editable().GetContent())
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeCorruptDocument, "malformed DOCX body", err)
	}
	return text, nil
}

// wordMLText flattens a WordprocessingML body into lines. Paragraphs end a
// line, w:br and w:cr break one, and w:tab becomes a tab.
func wordMLText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false

	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
