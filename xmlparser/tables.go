package xmlparser

// Byte-indexed classification tables the scanner consults while
// advancing through the buffer. Each table answers one question about a
// single byte in O(1); the scanner advances while the relevant table
// says "keep going" and stops on the first byte that does not.
//
// Bytes with the high bit set (part of a multi-byte UTF-8 sequence) are
// treated as ordinary name/text bytes throughout — this parser never
// decodes UTF-8 itself except when synthesizing a numeric character
// reference (see algorithms.go).

var (
	isWhitespace      [256]bool
	isElementNameChar [256]bool
	isAttrNameChar    [256]bool

	// textStop is true for a byte that ends a text/element-content run:
	// '<' (start of markup) or NUL (end of buffer).
	textStop [256]bool
	// textPureNoWS is true for a byte that text scanning under
	// normalize_whitespace can copy verbatim without falling into the
	// slow entity/whitespace rewrite path — whitespace is excluded
	// because it must be collapsed.
	textPureNoWS [256]bool
	// textPureWithWS is the same, used when normalize_whitespace is
	// clear: whitespace is then itself pure (copied byte for byte).
	textPureWithWS [256]bool

	// attrValueStopQuote maps a quote byte ('\'' or '"') to a 256-entry
	// table that is true when the current byte closes the value (the
	// matching quote), starts markup ('<'), or ends the buffer (NUL).
	attrValueStopQuote = map[byte]*[256]bool{}
	// attrValuePureQuote mirrors attrValueStopQuote for the fast path:
	// true for bytes that need no entity decoding and are not the
	// closing quote.
	attrValuePureQuote = map[byte]*[256]bool{}

	// hexDigitValue[c] is the value of c as a hex digit, or 255 if c is
	// not one.
	hexDigitValue [256]byte
	// decDigitValue[c] is the value of c as a decimal digit, or 255 if
	// c is not one.
	decDigitValue [256]byte
)

const notADigit = 255

func init() {
	for c := 0; c < 256; c++ {
		b := byte(c)
		isWhitespace[c] = b == ' ' || b == '\t' || b == '\n' || b == '\r'

		isElementNameChar[c] = isNameByte(b)
		isAttrNameChar[c] = isNameByte(b)

		textStop[c] = b == '<' || b == 0
		textPureNoWS[c] = !(b == '<' || b == '&' || b == 0 || isWhitespace[c])
		textPureWithWS[c] = !(b == '<' || b == '&' || b == 0)

		hexDigitValue[c] = notADigit
		decDigitValue[c] = notADigit
	}

	for c := byte('0'); c <= '9'; c++ {
		hexDigitValue[c] = c - '0'
		decDigitValue[c] = c - '0'
	}
	for c := byte('a'); c <= 'f'; c++ {
		hexDigitValue[c] = c - 'a' + 10
	}
	for c := byte('A'); c <= 'F'; c++ {
		hexDigitValue[c] = c - 'A' + 10
	}

	attrValueStopQuote['\''] = buildAttrValueStop('\'')
	attrValueStopQuote['"'] = buildAttrValueStop('"')
	attrValuePureQuote['\''] = buildAttrValuePure('\'')
	attrValuePureQuote['"'] = buildAttrValuePure('"')
}

// isNameByte reports whether b may appear in an element or attribute
// name: ASCII letters, digits, and the XML Name punctuation subset this
// parser accepts (':', '_', '-', '.'), plus any byte with the high bit
// set so multi-byte UTF-8 names pass through untouched.
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == ':', b == '_', b == '-', b == '.':
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func buildAttrValueStop(quote byte) *[256]bool {
	var t [256]bool
	for c := 0; c < 256; c++ {
		b := byte(c)
		t[c] = b == quote || b == '<' || b == 0
	}
	return &t
}

func buildAttrValuePure(quote byte) *[256]bool {
	var t [256]bool
	for c := 0; c < 256; c++ {
		b := byte(c)
		t[c] = !(b == quote || b == '&' || b == 0)
	}
	return &t
}
