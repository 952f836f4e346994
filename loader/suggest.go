package loader

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/xreader-go/xreader/xmldom"
	"github.com/xreader-go/xreader/xmlparser"
)

// maxSuggestionDistance bounds how far (in edits) a candidate name may be
// from the offending token before it is no longer worth surfacing as a
// "did you mean" suggestion.
const maxSuggestionDistance = 3

// enrichParseError wraps a *xmlparser.ParseError with a did-you-mean
// suggestion computed from its Candidates, when the error is an
// invalid-closing-tag mismatch and at least one candidate is close
// enough. It returns err unchanged when there is nothing to suggest; a
// suggestion is added by wrapping with %w, so Is/As behavior is kept.
func enrichParseError(err error, buf []byte) error {
	pe, ok := err.(*xmlparser.ParseError)
	if !ok || len(pe.Candidates) == 0 {
		return err
	}

	offending := closingTagNameAt(buf, pe.Offset)
	if offending == "" {
		return err
	}

	best, dist := "", -1
	for _, c := range pe.Candidates {
		d := levenshtein.ComputeDistance(offending, c)
		if dist == -1 || d < dist {
			best, dist = c, d
		}
	}
	if dist < 0 || dist > maxSuggestionDistance || best == offending {
		return err
	}

	return fmt.Errorf("%w (did you mean %q?)", pe, best)
}

// closingTagNameAt reads the element-name-class run starting at offset,
// mirroring the scan parseClosingTag already performed — used only to
// recover the offending name for the suggestion message, never to
// re-parse.
func closingTagNameAt(buf []byte, offset int) string {
	if offset < 0 || offset >= len(buf) {
		return ""
	}
	end := offset
	for end < len(buf) && isNameByteForSuggestion(buf[end]) {
		end++
	}
	return string(buf[offset:end])
}

func isNameByteForSuggestion(b byte) bool {
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

// AttributeSuggestion pairs an observed attribute name with the expected
// schema name it is edit-distance-close to, surfaced by StrictAttrs mode.
type AttributeSuggestion struct {
	Element  string
	Attr     string
	Expected string
	Distance int
}

// checkStrictAttrs walks doc looking for attribute names that are close
// to, but not equal to, one of expected. It never mutates the tree or
// affects parse results — it runs strictly after a successful parse.
func checkStrictAttrs(doc *xmldom.Node, expected []string) []AttributeSuggestion {
	if len(expected) == 0 {
		return nil
	}
	var out []AttributeSuggestion
	var walk func(n *xmldom.Node)
	walk = func(n *xmldom.Node) {
		if n.Kind() == xmldom.Element {
			for a := n.FirstAttribute(nil, true); a != nil; a = a.NextAttribute(nil, true) {
				name := string(a.Name())
				best, dist := "", -1
				for _, e := range expected {
					if e == name {
						dist = -1
						break
					}
					d := levenshtein.ComputeDistance(name, e)
					if dist == -1 || d < dist {
						best, dist = e, d
					}
				}
				if dist > 0 && dist <= maxSuggestionDistance {
					out = append(out, AttributeSuggestion{
						Element:  string(n.Name()),
						Attr:     name,
						Expected: best,
						Distance: dist,
					})
				}
			}
		}
		for c := n.FirstChild(nil, true); c != nil; c = c.NextSibling(nil, true) {
			walk(c)
		}
	}
	walk(doc)
	return out
}
