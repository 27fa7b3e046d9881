// Package format provides document format detection for EDGAR filing files.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a recognized filing document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML filing document.
	HTML
	// Text indicates a plain-text or SGML-wrapped filing document.
	Text
	// XML indicates an XML document, typically an XBRL instance or schema.
	XML
	// PDF indicates a PDF exhibit.
	PDF
	// Graphic indicates an image exhibit (GIF or JPEG).
	Graphic
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case Text:
		return "Text"
	case XML:
		return "XML"
	case PDF:
		return "PDF"
	case Graphic:
		return "Graphic"
	default:
		return "Unknown"
	}
}

// Chunkable reports whether documents of this format can be fed to the
// segmentation pipeline.
func (f Format) Chunkable() bool {
	return f == HTML || f == Text
}

// Detect determines document format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".htm", ".html":
		return HTML
	case ".txt":
		return Text
	case ".xml", ".xsd":
		return XML
	case ".pdf":
		return PDF
	case ".gif", ".jpg", ".jpeg", ".png":
		return Graphic
	default:
		return Unknown
	}
}

// DetectFromContent sniffs the leading bytes of a document. EDGAR filenames
// often lie: plenty of .txt submission files wrap an HTML body, and some
// .htm files hold XBRL. Content detection wins over the extension when the
// two disagree.
func DetectFromContent(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}
	if data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' {
		return Graphic
	}
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return Graphic
	}
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return Graphic
	}

	head := sniffHead(data)
	switch {
	case looksLikeHTML(head):
		return HTML
	case strings.HasPrefix(head, "<?XML"):
		return XML
	case strings.HasPrefix(head, "<SEC-DOCUMENT") || strings.HasPrefix(head, "<SEC-HEADER") ||
		strings.HasPrefix(head, "<DOCUMENT"):
		return Text
	}

	return Unknown
}

// DetectNamed combines extension and content detection, preferring the
// content when it is conclusive.
func DetectNamed(filename string, data []byte) Format {
	if f := DetectFromContent(data); f != Unknown {
		return f
	}
	return Detect(filename)
}

// sniffHead uppercases the first 512 bytes past leading whitespace.
func sniffHead(data []byte) string {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	data = data[start:]
	if len(data) > 512 {
		data = data[:512]
	}
	return strings.ToUpper(string(data))
}

// looksLikeHTML checks the sniffed head for common HTML signatures.
func looksLikeHTML(head string) bool {
	if strings.HasPrefix(head, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(head, "<HTML") {
		return true
	}
	// XHTML: an XML declaration followed by an html root element
	if strings.HasPrefix(head, "<?XML") && strings.Contains(head, "<HTML") {
		return true
	}
	return false
}
