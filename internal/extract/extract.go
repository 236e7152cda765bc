// Package extract pulls plain text out of uploaded resume and job
// description files.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// SupportedExtensions lists the upload file types the extractor handles
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// IsSupported reports whether a filename has an extractable extension
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Text extracts plain text from file data based on the filename extension
func Text(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return strings.TrimSpace(string(data)), nil
	case ".pdf":
		return pdfText(data)
	case ".docx", ".doc":
		return docxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

// pdfText extracts text from PDF data page by page. Pages that fail to
// parse are skipped; extraction fails only when no page yields text.
func pdfText(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	extracted := false
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil || pageText == "" {
			continue
		}
		extracted = true
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	if !extracted {
		return "", fmt.Errorf("no text could be extracted from any page")
	}
	return strings.TrimSpace(sb.String()), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// docxText extracts text from Word document data
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	// Paragraph and line break boundaries become newlines before tags
	// are stripped, so the text keeps its structure.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:br/>", "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")

	text := strings.TrimSpace(content)
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from document")
	}
	return text, nil
}
