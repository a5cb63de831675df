package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Source identifies where a document's text came from. Page is the
// 1-based PDF page or sheet number, 0 when the format has no pages.
type Source struct {
	File string
	Page int
}

// Document is one unit of loaded text with its source metadata.
// PDFs produce one Document per page; other formats one per file
// (spreadsheets one per sheet).
type Document struct {
	Text   string
	Source Source
}

// Load reads every supported file in the top level of dir and returns
// the extracted documents. PDF failures abort the load; failures in
// any other format are logged and the file is skipped.
func Load(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(path))

		if ext == ".pdf" {
			pages, err := loadPDF(path)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
			}
			docs = append(docs, pages...)
			continue
		}

		var doc []Document
		switch ext {
		case ".txt":
			doc, err = loadText(path)
		case ".md":
			doc, err = loadMarkdown(path)
		case ".docx":
			doc, err = loadDOCX(path)
		case ".xlsx":
			doc, err = loadXLSX(path)
		case ".ods":
			doc, err = loadODS(path)
		default:
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable file")
			continue
		}
		docs = append(docs, doc...)
	}
	return docs, nil
}

func loadPDF(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var docs []Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{Text: text, Source: Source{File: path, Page: i}})
	}
	return docs, nil
}

func loadText(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []Document{{Text: string(data), Source: Source{File: path}}}, nil
}

// loadMarkdown parses the file with goldmark and collects the text
// nodes, so formatting syntax does not end up in the index.
func loadMarkdown(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root := goldmark.New().Parser().Parse(gmtext.NewReader(data))

	var text strings.Builder
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				text.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			text.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				text.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, nil
	}
	return []Document{{Text: text.String(), Source: Source{File: path}}}, nil
}

func loadDOCX(path string) ([]Document, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	text := extractTextFromXML(content, "<w:t")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []Document{{Text: text, Source: Source{File: path}}}, nil
}

func loadXLSX(path string) ([]Document, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		docs = append(docs, Document{
			Text:   text.String(),
			Source: Source{File: path, Page: sheetNum + 1},
		})
	}
	return docs, nil
}

func loadODS(path string) ([]Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []Document
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		docs = append(docs, Document{
			Text:   text.String(),
			Source: Source{File: path, Page: sheetNum + 1},
		})
	}
	return docs, nil
}

// extractTextFromXML pulls the character data out of every element
// opened by openTag, e.g. "<w:t" for DOCX runs.
func extractTextFromXML(xmlContent, openTag string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, openTag)
	for i, part := range parts {
		if i == 0 {
			continue
		}
		// skip the rest of the opening tag's attributes
		gt := strings.Index(part, ">")
		if gt < 0 {
			continue
		}
		part = part[gt+1:]
		end := strings.Index(part, "</")
		if end >= 0 {
			text.WriteString(part[:end] + " ")
		}
	}
	return text.String()
}
