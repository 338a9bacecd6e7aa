package segment

import "strings"

// Segment is one terminator-delimited record. Element 0 is the tag.
type Segment []string

// Tag returns the segment identifier, e.g. "ISA" or "PO1".
func (s Segment) Tag() string {
	if len(s) == 0 {
		return ""
	}
	return strings.TrimSpace(s[0])
}

// Delimiters holds the two separator bytes needed to split a document.
type Delimiters struct {
	Segment byte // segment terminator
	Element byte // element separator
}

// DefaultDelimiters are the separators used by most X12 trading partners.
var DefaultDelimiters = Delimiters{Segment: '~', Element: '*'}

// Tokenize splits raw document text into segments and elements.
// Segments that are blank after trimming are skipped. Empty input yields an
// empty slice. Element counts are not validated here.
func Tokenize(text string, d Delimiters) []Segment {
	term, elem := sep(d.Segment), sep(d.Element)
	segments := make([]Segment, 0, strings.Count(text, term)+1)
	for _, raw := range strings.Split(text, term) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		segments = append(segments, Segment(strings.Split(raw, elem)))
	}
	return segments
}

// String joins the segment back together with the given element separator.
func (s Segment) String(elementSep byte) string {
	return strings.Join(s, sep(elementSep))
}

// sep returns b as a one-byte string. string(b) would encode bytes above
// 0x7f as two-byte UTF-8 runes.
func sep(b byte) string {
	return string([]byte{b})
}
