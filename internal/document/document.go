// Package document turns uploaded files into plain text for extraction.
package document

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/MikeSquared-Agency/offerdesk/internal/markup"
)

// ErrUnsupported is returned for file types Extract cannot read.
var ErrUnsupported = errors.New("unsupported document type")

// supported lists the extensions Extract handles.
var supported = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".csv": true,
	".html": true, ".htm": true, ".pdf": true, ".docx": true,
}

// Supported reports whether filename has a readable extension.
func Supported(filename string) bool {
	return supported[strings.ToLower(filepath.Ext(filename))]
}

// Extract reads r as the type implied by filename and returns its text with
// paragraphs separated by blank lines.
func Extract(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supported[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}

	var text string
	switch ext {
	case ".txt":
		text, err = plainText(data)
	case ".md", ".markdown":
		text, err = markdownText(data)
	case ".csv":
		text, err = csvText(data)
	case ".html", ".htm":
		text = htmlText(string(data))
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}
	return strings.TrimSpace(text), nil
}

func plainText(data []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func markdownText(data []byte) (string, error) {
	out, err := markup.ToHTML(string(data))
	if err != nil {
		return "", err
	}
	return htmlText(out), nil
}

// htmlText keeps one block per paragraph.
func htmlText(s string) string {
	return strings.ReplaceAll(markup.Text(s), "\n", "\n\n")
}

// csvText renders each row as "header: value" pairs, one row per paragraph.
func csvText(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]
	rows := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, ", "))
		}
	}
	return strings.Join(rows, "\n\n"), nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
