package segment

// ISA is a fixed-layout header: the byte after "ISA" is the element
// separator, ISA16 is the one-byte component separator, and the segment
// terminator immediately follows it.
const (
	isaTag                   = "ISA"
	isaElementSeparatorIndex = 3
	isaComponentElement      = 16
)

// DetectDelimiters reads the separators declared by the ISA header.
// If text does not start with an ISA segment, or the header is too short or
// declares unusable separators, fallback is returned.
func DetectDelimiters(text string, fallback Delimiters) Delimiters {
	start := 0
	for start < len(text) && isSpace(text[start]) {
		start++
	}
	text = text[start:]
	if len(text) <= isaElementSeparatorIndex || text[:len(isaTag)] != isaTag {
		return fallback
	}

	elem := text[isaElementSeparatorIndex]
	if !usable(elem) {
		return fallback
	}

	seen := 0
	for i := isaElementSeparatorIndex; i < len(text); i++ {
		if text[i] != elem {
			continue
		}
		seen++
		if seen < isaComponentElement {
			continue
		}
		// text[i+1] is the component separator, the terminator follows it.
		if i+2 >= len(text) {
			return fallback
		}
		term := text[i+2]
		if term == '\r' && i+3 < len(text) && text[i+3] == '\n' {
			term = '\n'
		}
		if term == elem || term == ' ' || isAlnum(term) {
			return fallback
		}
		return Delimiters{Segment: term, Element: elem}
	}
	return fallback
}

func usable(b byte) bool {
	return !isAlnum(b) && !isSpace(b)
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
