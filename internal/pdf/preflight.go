// Package pdfutil checks a PDF locally before it is uploaded, so obviously
// unusable files never cost a round trip to the backend.
package pdfutil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

var (
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrEmpty        = errors.New("file is empty")
	ErrTooLarge     = errors.New("file is too large")
	ErrTooManyPages = errors.New("too many pages")
)

// PreviewRunes bounds the preview text length.
const PreviewRunes = 400

// Limits mirrors the backend's upload restrictions.
type Limits struct {
	MaxBytes int64
	MaxPages int
}

// Report describes a file that passed preflight.
type Report struct {
	FileName string
	Size     int64
	Pages    int
	Preview  string
}

// Check opens path and runs CheckReader against it.
func Check(path string, lim Limits) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotPDF, path)
	}
	return CheckReader(f, info.Size(), filepath.Base(path), lim)
}

// CheckReader validates size, type and page count, then extracts a short
// preview of the first page. A preview failure is not an error.
func CheckReader(r io.ReaderAt, size int64, name string, lim Limits) (*Report, error) {
	if size == 0 {
		return nil, ErrEmpty
	}
	if lim.MaxBytes > 0 && size > lim.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, lim.MaxBytes)
	}
	head := make([]byte, 512)
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read pdf header: %w", err)
	}
	sniffed := http.DetectContentType(head[:n]) == "application/pdf"
	if !sniffed && !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, name)
	}

	doc, pages, err := open(r, size)
	if err != nil {
		return nil, err
	}
	if lim.MaxPages > 0 && pages > lim.MaxPages {
		return nil, fmt.Errorf("%w: %d pages exceeds limit of %d", ErrTooManyPages, pages, lim.MaxPages)
	}
	return &Report{
		FileName: name,
		Size:     size,
		Pages:    pages,
		Preview:  firstPageText(doc),
	}, nil
}

// open parses the cross-reference table and counts pages. The parser panics
// on some malformed files, such as a startxref offset past the end.
func open(r io.ReaderAt, size int64) (doc *pdf.Reader, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, pages, err = nil, 0, fmt.Errorf("%w: %v", ErrNotPDF, rec)
		}
	}()
	doc, err = pdf.NewReader(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	return doc, doc.NumPage(), nil
}

// firstPageText recovers from parser panics; malformed content streams in
// otherwise valid files are common.
func firstPageText(doc *pdf.Reader) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if doc.NumPage() == 0 {
		return ""
	}
	p := doc.Page(1)
	if p.V.IsNull() {
		return ""
	}
	raw, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return Truncate(strings.Join(strings.Fields(raw), " "), PreviewRunes)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
