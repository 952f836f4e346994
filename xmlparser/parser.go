// Package xmlparser turns one NUL-terminated, writable byte buffer into
// a xmldom tree, rewriting the buffer in place as it decodes entities
// and normalizes whitespace. See Flags for the behavior knobs and
// ParseError for the failure taxonomy.
package xmlparser

import (
	"bytes"

	"github.com/xreader-go/xreader/arena"
	"github.com/xreader-go/xreader/xmldom"
)

// scanner holds the mutable state of one Parse call: the arena nodes
// and attributes are carved from, the buffer being scanned and
// rewritten, the active flag set, and the current read position.
type scanner struct {
	arena *arena.Arena
	buf   []byte
	flags Flags
	pos   int

	// stack holds the names of currently-open elements, innermost last.
	// It exists only to supply did-you-mean candidates to ParseError
	// when ValidateClosingTags rejects a </name> — rapidxml's own
	// recursive descent carries this implicitly on the call stack; this
	// makes it inspectable without changing parse semantics.
	stack [][]byte
}

// Parse scans buf — which must be writable and end in a single NUL byte
// — and returns a Document node whose children are the top-level nodes
// of the input. Nodes, attributes and any copied strings are carved
// from a. The buffer is rewritten in place as entities are decoded and
// whitespace is normalized, except where flags suppress that.
//
// A non-nil error means the receiver is unusable: per the propagation
// policy, no partial state is rolled back, and callers must discard
// both the returned value (which is nil) and treat buf as corrupted.
func Parse(a *arena.Arena, buf []byte, flags Flags) (doc *xmldom.Node, err error) {
	if len(buf) == 0 || buf[len(buf)-1] != 0 {
		return nil, &ParseError{Message: "buffer must end in a NUL byte"}
	}

	p := &scanner{arena: a, buf: buf, flags: flags}
	doc = xmldom.NewNode(a, xmldom.Document)

	defer func() {
		if r := recover(); r == nil {
			return
		} else if pe, ok := r.(*ParseError); ok {
			doc, err = nil, pe
		} else if r == arena.ErrOutOfMemory {
			doc, err = nil, &ParseError{Message: errOutOfMemory}
		} else {
			panic(r)
		}
	}()

	p.skipBOM()
	p.parseTopLevel(doc)
	return doc, nil
}

func (p *scanner) skipBOM() {
	if matchLiteral(p.buf, 0, "\xEF\xBB\xBF") {
		p.pos = 3
	}
}

func (p *scanner) skipWhitespace() {
	for isWhitespace[p.buf[p.pos]] {
		p.pos++
	}
}

// terminate writes a NUL byte at pos unless NoStringTerminators is set.
// Every call site must have already finished every read of pos that
// depends on its original content — see dispatchElementContentByte for
// why this ordering matters.
func (p *scanner) terminate(pos int) {
	if !p.flags.has(NoStringTerminators) {
		p.buf[pos] = 0
	}
}

func (p *scanner) parseTopLevel(doc *xmldom.Node) {
	for {
		p.skipWhitespace()
		c := p.buf[p.pos]
		if c == 0 {
			return
		}
		if c != '<' {
			p.fail(errExpectedLT, p.pos)
		}
		p.pos++
		node := p.parseNode()
		if node != nil {
			doc.AppendChild(node)
		}
	}
}

// parseNode dispatches on the byte immediately following a '<' already
// consumed by the caller.
func (p *scanner) parseNode() *xmldom.Node {
	switch p.buf[p.pos] {
	case '?':
		return p.parsePI()
	case '!':
		return p.parseBang()
	default:
		return p.parseElement()
	}
}

func (p *scanner) parsePI() *xmldom.Node {
	p.pos++ // consume '?'
	if matchLiteral(p.buf, p.pos, "xml") && p.pos+3 < len(p.buf) && isWhitespace[p.buf[p.pos+3]] {
		return p.parseDeclaration()
	}
	return p.parseProcessingInstruction()
}

func (p *scanner) parseDeclaration() *xmldom.Node {
	p.pos += 3 // consume "xml"

	node := xmldom.NewNode(p.arena, xmldom.Declaration)
	p.parseNodeAttributes(node)

	if p.buf[p.pos] != '?' {
		p.fail(errExpectedPIClose, p.pos)
	}
	if p.pos+1 >= len(p.buf) || p.buf[p.pos+1] != '>' {
		p.fail(errExpectedPIClose, p.pos)
	}
	p.pos += 2

	if !p.flags.has(DeclarationNode) {
		return nil
	}
	return node
}

func (p *scanner) parseProcessingInstruction() *xmldom.Node {
	nameStart := p.pos
	for isElementNameChar[p.buf[p.pos]] {
		p.pos++
	}
	if p.pos == nameStart {
		p.fail(errExpectedPITarget, p.pos)
	}
	nameEnd := p.pos
	name := p.buf[nameStart:nameEnd]

	p.skipWhitespace()
	valueStart := p.pos
	for {
		c := p.buf[p.pos]
		if c == 0 {
			p.fail(errUnexpectedEndOfData, p.pos)
		}
		if c == '?' && matchLiteral(p.buf, p.pos, "?>") {
			break
		}
		p.pos++
	}
	value := p.buf[valueStart:p.pos]
	p.pos += 2
	p.terminate(nameEnd)

	if !p.flags.has(PINodes) {
		return nil
	}
	node := xmldom.NewNode(p.arena, xmldom.PI)
	node.SetName(name)
	node.SetValue(value)
	return node
}

func (p *scanner) parseBang() *xmldom.Node {
	p.pos++ // consume '!'
	switch {
	case matchLiteral(p.buf, p.pos, "--"):
		return p.parseComment()
	case matchLiteral(p.buf, p.pos, "[CDATA["):
		return p.parseCDATA()
	case matchLiteral(p.buf, p.pos, "DOCTYPE") && p.pos+7 < len(p.buf) && isWhitespace[p.buf[p.pos+7]]:
		return p.parseDoctype()
	default:
		return p.skipUnknownDeclaration()
	}
}

func (p *scanner) parseComment() *xmldom.Node {
	p.pos += 2 // consume "--"
	start := p.pos
	for {
		c := p.buf[p.pos]
		if c == 0 {
			p.fail(errUnexpectedEndOfData, p.pos)
		}
		if c == '-' && matchLiteral(p.buf, p.pos, "-->") {
			break
		}
		p.pos++
	}
	value := p.buf[start:p.pos]
	p.pos += 3

	if !p.flags.has(CommentNodes) {
		return nil
	}
	node := xmldom.NewNode(p.arena, xmldom.Comment)
	node.SetValue(value)
	return node
}

func (p *scanner) parseCDATA() *xmldom.Node {
	p.pos += 7 // consume "[CDATA["
	start := p.pos
	for {
		c := p.buf[p.pos]
		if c == 0 {
			p.fail(errUnexpectedEndOfData, p.pos)
		}
		if c == ']' && matchLiteral(p.buf, p.pos, "]]>") {
			break
		}
		p.pos++
	}
	value := p.buf[start:p.pos]
	p.pos += 3

	if p.flags.has(NoDataNodes) {
		return nil
	}
	node := xmldom.NewNode(p.arena, xmldom.CDATA)
	node.SetValue(value)
	return node
}

func (p *scanner) parseDoctype() *xmldom.Node {
	p.pos += 7 // consume "DOCTYPE"
	p.skipWhitespace()
	start := p.pos
	depth := 0
	for {
		c := p.buf[p.pos]
		switch {
		case c == 0:
			p.fail(errUnexpectedEndOfData, p.pos)
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth == 0:
			goto done
		}
		p.pos++
	}
done:
	value := p.buf[start:p.pos]
	p.pos++ // consume '>'

	if !p.flags.has(DoctypeNode) {
		return nil
	}
	node := xmldom.NewNode(p.arena, xmldom.DOCTYPE)
	node.SetValue(value)
	return node
}

func (p *scanner) skipUnknownDeclaration() *xmldom.Node {
	for {
		c := p.buf[p.pos]
		if c == 0 {
			p.fail(errUnexpectedEndOfData, p.pos)
		}
		if c == '>' {
			break
		}
		p.pos++
	}
	p.pos++
	return nil
}

func (p *scanner) parseElement() *xmldom.Node {
	nameStart := p.pos
	for isElementNameChar[p.buf[p.pos]] {
		p.pos++
	}
	if p.pos == nameStart {
		p.fail(errExpectedElementName, p.pos)
	}
	nameEnd := p.pos
	name := p.buf[nameStart:nameEnd]

	node := xmldom.NewNode(p.arena, xmldom.Element)
	node.SetName(name)

	p.parseNodeAttributes(node)

	selfClosing := p.buf[p.pos] == '/'
	if selfClosing {
		p.pos++
	}
	if p.buf[p.pos] != '>' {
		p.fail(errExpectedGT, p.pos)
	}
	p.pos++
	p.terminate(nameEnd)

	if !selfClosing {
		p.stack = append(p.stack, name)
		p.parseElementContent(node)
		p.stack = p.stack[:len(p.stack)-1]
	}
	return node
}

func (p *scanner) parseNodeAttributes(node *xmldom.Node) {
	for {
		p.skipWhitespace()
		if !isAttrNameChar[p.buf[p.pos]] {
			return
		}

		nameStart := p.pos
		for isAttrNameChar[p.buf[p.pos]] {
			p.pos++
		}
		nameEnd := p.pos
		name := p.buf[nameStart:nameEnd]

		p.skipWhitespace()
		if p.buf[p.pos] != '=' {
			p.fail(errExpectedEquals, p.pos)
		}
		p.pos++
		p.terminate(nameEnd)

		p.skipWhitespace()
		quote := p.buf[p.pos]
		if quote != '\'' && quote != '"' {
			p.fail(errExpectedQuote, p.pos)
		}
		p.pos++

		valueStart := p.pos
		val, end := p.rewrite(valueStart, attrValuePureQuote[quote], attrValueStopQuote[quote], false)
		p.pos = end

		if p.buf[p.pos] != quote {
			if p.buf[p.pos] == 0 {
				p.fail(errUnexpectedEndOfData, p.pos)
			}
			p.fail(errExpectedQuote, p.pos)
		}
		quotePos := p.pos
		p.pos = quotePos + 1
		p.terminate(quotePos)

		attr := xmldom.NewAttribute(p.arena)
		attr.SetName(name)
		attr.SetValue(val)
		node.AppendAttribute(attr)
	}
}

func (p *scanner) parseElementContent(element *xmldom.Node) {
	for {
		contentsStart := p.pos
		p.skipWhitespace()
		c := p.buf[p.pos]
		if c != '<' && c != 0 && !p.flags.has(TrimWhitespace) {
			// A text run keeps its leading whitespace unless trimming.
			p.pos = contentsStart
		}
		if p.dispatchElementContentByte(element, c) {
			return
		}
	}
}

// dispatchElementContentByte handles one step of the element content
// loop given a byte c already known to sit at p.pos, and reports whether
// element's closing tag has been consumed. It is factored out of
// parseElementContent so a text run's terminating byte — returned by
// parseData, not re-read from the buffer — can re-enter dispatch
// directly. This mirrors rapidxml_edit.hpp's "goto after_data_node",
// which dispatches on the byte parse_and_append_data already returned
// instead of re-reading *text: parseData may have just overwritten that
// position with a NUL terminator (unless NoStringTerminators is set),
// and re-reading it would wrongly look like end-of-buffer.
func (p *scanner) dispatchElementContentByte(element *xmldom.Node, c byte) bool {
	switch {
	case c == '<':
		p.pos++
		if p.buf[p.pos] == '/' {
			p.pos++
			p.parseClosingTag(element)
			return true
		}
		child := p.parseNode()
		if child != nil {
			element.AppendChild(child)
		}
		return false

	case c == 0:
		p.fail(errUnexpectedEndOfData, p.pos)
		panic("unreachable")

	default:
		value, node, term := p.parseData()
		if node != nil {
			element.AppendChild(node)
		}
		if !p.flags.has(NoElementValues) && len(element.Value()) == 0 {
			element.SetValue(value)
		}
		return p.dispatchElementContentByte(element, term)
	}
}

// parseData scans one text run starting at p.pos and returns its decoded
// value, the data node to append (nil under NoDataNodes), and the byte
// that terminated the run. That terminating byte is always '<' — a
// premature NUL fails inside this function — but it is still handed back
// explicitly rather than left for the caller to re-read from the buffer,
// since terminate may have just overwritten it with a NUL.
func (p *scanner) parseData() (value []byte, node *xmldom.Node, term byte) {
	start := p.pos
	normalize := p.flags.has(NormalizeWhitespace)

	pure := &textPureWithWS
	if normalize {
		pure = &textPureNoWS
	}

	val, end := p.rewrite(start, pure, &textStop, normalize)
	p.pos = end

	term = p.buf[p.pos]
	if term == 0 {
		p.fail(errUnexpectedEndOfData, p.pos)
	}
	p.terminate(p.pos)

	if p.flags.has(TrimWhitespace) {
		val = trimTrailingWhitespace(val)
	}

	if p.flags.has(NoDataNodes) {
		return val, nil, term
	}
	n := xmldom.NewNode(p.arena, xmldom.Data)
	n.SetValue(val)
	return val, n, term
}

// closingTagCandidates gathers the names still on the open-element stack
// (innermost first) and the names of element already attached to
// element's own child list, for ParseError.Candidates to rank with
// levenshtein distance against the offending </name>. Deduplicated,
// order preserved.
func (p *scanner) closingTagCandidates(element *xmldom.Node) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name []byte) {
		if len(name) == 0 {
			return
		}
		s := string(name)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		add(p.stack[i])
	}
	for c := element.FirstChild(nil, true); c != nil; c = c.NextSibling(nil, true) {
		if c.Kind() == xmldom.Element {
			add(c.Name())
		}
	}
	return out
}

func trimTrailingWhitespace(val []byte) []byte {
	end := len(val)
	for end > 0 && isWhitespace[val[end-1]] {
		end--
	}
	return val[:end]
}

func (p *scanner) parseClosingTag(element *xmldom.Node) {
	nameStart := p.pos
	for isElementNameChar[p.buf[p.pos]] {
		p.pos++
	}
	name := p.buf[nameStart:p.pos]

	if p.flags.has(ValidateClosingTags) && !bytes.Equal(name, element.Name()) {
		p.failClosingTagMismatch(nameStart, element)
	}

	p.skipWhitespace()
	if p.buf[p.pos] != '>' {
		p.fail(errExpectedGT, p.pos)
	}
	p.pos++
}
