package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PageSource exposes the pages of an opened document. Page indexes are 0-based.
type PageSource interface {
	NumPages() int
	PageText(i int) (string, error)
}

// Opener parses raw document bytes into a PageSource.
type Opener func(data []byte) (PageSource, error)

// PDFExtractor implements domain.TextExtractor for PDF documents.
type PDFExtractor struct {
	open Opener
}

// NewPDFExtractor creates an extractor backed by github.com/ledongthuc/pdf.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{open: OpenPDF}
}

// NewExtractorWithOpener creates an extractor over a custom document parser.
func NewExtractorWithOpener(open Opener) *PDFExtractor {
	return &PDFExtractor{open: open}
}

// Extract returns the text of every non-empty page, verbatim, joined by
// newlines in page order. EMPTY_DOCUMENT is raised only after the whole
// document has been scanned and the joined text is blank.
func (e *PDFExtractor) Extract(ctx context.Context, document []byte) (string, error) {
	l := logger.Get()

	if len(document) == 0 {
		return "", domain.NewUnreadableDocumentError(errors.New("document is empty"))
	}

	src, err := safeOpen(e.open, document)
	if err != nil {
		l.Warn("Failed to open document", zap.Error(err), zap.Int("size", len(document)))
		return "", domain.NewUnreadableDocumentError(err)
	}

	numPages := src.NumPages()
	parts := make([]string, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := safePageText(src, i)
		if err != nil {
			l.Warn("Failed to extract page text", zap.Int("page", i+1), zap.Error(err))
			return "", domain.NewUnreadableDocumentError(fmt.Errorf("page %d: %w", i+1, err)).
				WithContext("page", i+1)
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	full := strings.Join(parts, "\n")
	if strings.TrimSpace(full) == "" {
		l.Info("Document has no extractable text", zap.Int("pages", numPages))
		return "", domain.NewEmptyDocumentError()
	}

	l.Debug("Extracted document text",
		zap.Int("pages", numPages),
		zap.Int("pages_with_text", len(parts)),
		zap.Int("chars", len(full)))
	return full, nil
}

// The pdf package panics on some malformed inputs.
func safeOpen(open Opener, data []byte) (src PageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	return open(data)
}

func safePageText(src PageSource, i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parser panic: %v", r)
		}
	}()
	return src.PageText(i)
}

type pdfPages struct {
	r *pdf.Reader
}

// OpenPDF parses data as a PDF file.
func OpenPDF(data []byte) (PageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}
	return &pdfPages{r: r}, nil
}

func (p *pdfPages) NumPages() int {
	return p.r.NumPage()
}

func (p *pdfPages) PageText(i int) (string, error) {
	page := p.r.Page(i + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

var _ domain.TextExtractor = (*PDFExtractor)(nil)
