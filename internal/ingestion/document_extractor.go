package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfMagic is the header every PDF file starts with
const pdfMagic = "%PDF-"

var (
	// ErrNotPDF is returned when the upload does not carry a PDF header
	ErrNotPDF = errors.New("file is not a PDF")
	// ErrTooLarge is returned when the upload exceeds the configured size
	ErrTooLarge = errors.New("file exceeds the upload size limit")
)

// IsPDF checks the PDF magic number
func IsPDF(content []byte) bool {
	return bytes.HasPrefix(content, []byte(pdfMagic))
}

// ExtractPDFText returns the plain text of every page, one page per line
// block, in page order. Pages without content are skipped.
func ExtractPDFText(data []byte) (text string, err error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
