package xmlparser

import (
	"fmt"

	"github.com/xreader-go/xreader/xmldom"
)

// ParseError is returned by Parse when the input cannot be scanned as
// well-formed XML under the active flag set. Offset is the byte index
// into the buffer passed to Parse where the problem was detected; Line
// and Column are computed lazily by Position so that the common case —
// an error that is logged or discarded without ever being displayed to
// a human — pays no scanning cost.
type ParseError struct {
	Message string
	Offset  int

	// Candidates lists still-open ancestor/sibling element names at the
	// point of failure. It is populated only for errInvalidClosingTagName
	// and is nil otherwise; loader uses it to rank a did-you-mean
	// suggestion by edit distance. The core never ranks or reports a
	// suggestion itself — that stays a façade concern.
	Candidates []string

	buf []byte
}

func (e *ParseError) Error() string {
	if e.buf == nil {
		return e.Message
	}
	line, col := e.Position()
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, line, col)
}

// Position recomputes the 1-based line and column of the error's Offset
// by scanning the buffer from the start. It returns (0, 0) if the error
// carries no buffer (the out-of-memory case, whose location is null per
// the error taxonomy).
func (e *ParseError) Position() (line, column int) {
	if e.buf == nil {
		return 0, 0
	}
	line = 1
	lineStart := 0
	limit := e.Offset
	if limit > len(e.buf) {
		limit = len(e.buf)
	}
	for i := 0; i < limit; i++ {
		if e.buf[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, limit - lineStart + 1
}

// Named error messages from the taxonomy in the error-handling design.
// These are passed verbatim into ParseError.Message so callers can
// compare on message text the way a parse_error's what() is compared in
// the reference implementation.
const (
	errExpectedLT             = "expected <"
	errExpectedElementName    = "expected element name"
	errExpectedPITarget       = "expected PI target"
	errExpectedEquals         = "expected ="
	errExpectedQuote          = "expected ' or \""
	errExpectedPIClose        = "expected ?>"
	errExpectedGT             = "expected >"
	errExpectedSemicolon      = "expected ;"
	errInvalidClosingTagName  = "invalid closing tag name"
	errUnexpectedEndOfData    = "unexpected end of data"
	errInvalidNumericEntity   = "invalid numeric character entity"
	errOutOfMemory            = "out of memory"
)

// fail panics with a *ParseError positioned at offset. The panic is
// recovered at the top of Parse and converted into a normal error
// return, which keeps every interior scanning function free of error
// plumbing the way the reference parser's exception-based control flow
// does, without requiring exceptions.
func (p *scanner) fail(message string, offset int) {
	panic(&ParseError{Message: message, Offset: offset, buf: p.buf})
}

// failClosingTagMismatch panics with errInvalidClosingTagName, attaching
// the open-tag-stack/sibling candidates a façade can rank suggestions
// from.
func (p *scanner) failClosingTagMismatch(offset int, element *xmldom.Node) {
	panic(&ParseError{
		Message:    errInvalidClosingTagName,
		Offset:     offset,
		buf:        p.buf,
		Candidates: p.closingTagCandidates(element),
	})
}
