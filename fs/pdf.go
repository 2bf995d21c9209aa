package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPDFText is returned for a PDF without extractable text, such as a
// scanned document.
var ErrNoPDFText = errors.New("rules PDF contains no text")

var pdfMagic = []byte("%PDF-")

func isPDF(path string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf") || bytes.HasPrefix(data, pdfMagic)
}

// pdfText extracts the plain text of every page in document order. The
// pdf package panics on some malformed objects; those panics become errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading rules PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading rules PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading rules PDF: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading rules PDF: %w", err)
	}

	text = strings.TrimSpace(strings.ToValidUTF8(string(b), ""))
	if text == "" {
		return "", ErrNoPDFText
	}
	return text, nil
}
