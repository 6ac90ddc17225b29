package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DOCX is a zip containing word/document.xml (OOXML). We pull every
// <w:t>...</w:t> text node and join paragraphs with newlines so headings and
// paragraph boundaries survive into chunking. Text nodes may carry attributes
// (xml:space="preserve"), so the pattern allows them.
var (
	docxTextNode  = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	docxParagraph = regexp.MustCompile(`</w:p>`)
)

const docxDocumentPath = "word/document.xml"

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", docxDocumentPath)
	}
	// Paragraph closes become newlines before text nodes are collected, so
	// each paragraph lands on its own line.
	marked := docxParagraph.ReplaceAllString(string(docXML), "\n")
	var b strings.Builder
	for _, line := range strings.Split(marked, "\n") {
		parts := docxTextNode.FindAllStringSubmatch(line, -1)
		if len(parts) == 0 {
			continue
		}
		for _, p := range parts {
			b.WriteString(p[1])
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(unescapeXML(b.String())), nil
}

var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}
