package export

import "strings"

// Format is an export document type.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// ParseFormat accepts "html" or "pdf" in any case.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHTML:
		return FormatHTML, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

// FileName replaces every rune outside [a-zA-Z0-9] with an underscore.
func FileName(title string, f Format) string {
	var b strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + f.Ext()
}
