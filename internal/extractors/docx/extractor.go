package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ContentType is the MIME type of Word documents.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const documentPart = "word/document.xml"

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports returns true for the DOCX MIME type.
func (e *Extractor) Supports(contentType string) bool {
	return domain.MediaType(contentType) == ContentType
}

// Extract reads the paragraphs of word/document.xml. Pages are counted
// from explicit page breaks.
func (e *Extractor) Extract(_ string, data []byte) (*domain.ExtractedText, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a DOCX archive: %w", domain.ErrValidation, err)
	}

	part, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}

	var doc documentXML
	if err := xml.Unmarshal(part, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrValidation, documentPart, err)
	}

	content, pageBreaks := doc.text()
	return &domain.ExtractedText{
		Content:   content,
		PageCount: pageBreaks + 1,
		WordCount: domain.WordCount(content),
	}, nil
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", domain.ErrValidation, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrValidation, name, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: %s missing from archive", domain.ErrValidation, name)
}

// documentXML is the subset of word/document.xml needed for text.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text   []textElement `xml:"t"`
	Breaks []breakElement `xml:"br"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type breakElement struct {
	Type string `xml:"type,attr"`
}

func (d documentXML) text() (string, int) {
	var (
		b          strings.Builder
		pageBreaks int
	)
	for i, para := range d.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
			for _, br := range r.Breaks {
				if br.Type == "page" {
					pageBreaks++
				}
			}
		}
	}
	return strings.TrimSpace(b.String()), pageBreaks
}
