// Package docx writes documents as minimal OOXML packages readable by
// word processors. The package is an uncompressed zip with a fixed part
// list; no external docx library is involved.
package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hollg/vellum/block"
	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>
`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>
`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>
`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="36"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>
</w:styles>
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Write emits blocks as a .docx package. Headings and quotes map to
// paragraph styles, list markers are written literally into the run
// text and style spans become run properties.
func Write(w io.Writer, name string, specs []block.Spec) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", corePropsXML(name)},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML(specs)},
		{"word/styles.xml", stylesXML},
	}
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish docx: %w", err)
	}
	return nil
}

func corePropsXML(name string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>` + xmlEscaper.Replace(name) + `</dc:title>
</cp:coreProperties>
`
}

func documentXML(specs []block.Spec) string {
	labels := block.Labels(specs)

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for i, sp := range specs {
		writeParagraph(&sb, sp, labels[i])
	}
	sb.WriteString(`</w:body></w:document>` + "\n")
	return sb.String()
}

func writeParagraph(sb *strings.Builder, sp block.Spec, label string) {
	sb.WriteString("<w:p>")

	switch sp.Type {
	case block.Heading1:
		sb.WriteString(`<w:pPr><w:pStyle w:val="Heading1"/></w:pPr>`)
	case block.Heading2:
		sb.WriteString(`<w:pPr><w:pStyle w:val="Heading2"/></w:pPr>`)
	case block.Heading3:
		sb.WriteString(`<w:pPr><w:pStyle w:val="Heading3"/></w:pPr>`)
	case block.Quote:
		sb.WriteString(`<w:pPr><w:pStyle w:val="Quote"/></w:pPr>`)
	case block.Bullet, block.Numbered:
		if sp.Level > 0 {
			sb.WriteString(`<w:pPr><w:ind w:left="` + strconv.Itoa(720*sp.Level) + `"/></w:pPr>`)
		}
	}

	switch sp.Type {
	case block.Bullet:
		writeRun(sb, "• ", 0)
	case block.Numbered:
		if label != "" {
			writeRun(sb, label+" ", 0)
		}
	}

	for _, seg := range segments(sp.Text, sp.Spans) {
		writeRun(sb, seg.text, seg.style)
	}
	sb.WriteString("</w:p>")
}

func writeRun(sb *strings.Builder, text string, style block.StyleFlags) {
	sb.WriteString("<w:r>")
	if style != 0 {
		sb.WriteString("<w:rPr>")
		if style.Has(block.StyleBold) {
			sb.WriteString("<w:b/>")
		}
		if style.Has(block.StyleItalic) {
			sb.WriteString("<w:i/>")
		}
		if style.Has(block.StyleStrike) {
			sb.WriteString("<w:strike/>")
		}
		sb.WriteString("</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(xmlEscaper.Replace(text))
	sb.WriteString("</w:t></w:r>")
}

type segment struct {
	text  string
	style block.StyleFlags
}

// segments splits text into runs of uniform style.
func segments(text string, spans []block.StyleSpan) []segment {
	clusters := graphemeutil.Split(text)
	if len(clusters) == 0 {
		return nil
	}
	masks := make([]block.StyleFlags, len(clusters))
	for _, s := range spans {
		for i := s.Start; i < s.End && i < len(masks); i++ {
			if i >= 0 {
				masks[i] |= s.Style
			}
		}
	}
	var segs []segment
	start := 0
	for i := 1; i <= len(clusters); i++ {
		if i == len(clusters) || masks[i] != masks[start] {
			segs = append(segs, segment{text: strings.Join(clusters[start:i], ""), style: masks[start]})
			start = i
		}
	}
	return segs
}
