package xmlparser

import (
	"testing"

	"github.com/xreader-go/xreader/arena"
	"github.com/xreader-go/xreader/xmldom"
)

func nulBuf(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func TestParseBOMIsSkipped(t *testing.T) {
	a := arena.New()
	buf := nulBuf("\xEF\xBB\xBF<r/>")
	doc, err := Parse(a, buf, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r := doc.FirstChild(nil, true)
	if r == nil || string(r.Name()) != "r" {
		t.Fatalf("expected single child named r, got %v", r)
	}
	if r.NextSibling(nil, true) != nil {
		t.Fatal("expected exactly one child")
	}
	if r.FirstAttribute(nil, true) != nil {
		t.Fatal("expected no attributes")
	}
}

func TestParseAttributesAndElementValueMirror(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<a x="1" y='2'>hi</a>`)
	doc, err := Parse(a, buf, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	elem := doc.FirstChild(nil, true)
	if elem == nil || string(elem.Name()) != "a" {
		t.Fatalf("expected element a, got %v", elem)
	}

	x := elem.FirstAttribute(nil, true)
	if x == nil || string(x.Name()) != "x" || string(x.Value()) != "1" {
		t.Fatalf("first attribute wrong: %v", x)
	}
	y := x.NextAttribute(nil, true)
	if y == nil || string(y.Name()) != "y" || string(y.Value()) != "2" {
		t.Fatalf("second attribute wrong: %v", y)
	}

	if string(elem.Value()) != "hi" {
		t.Fatalf("element value = %q, want %q", elem.Value(), "hi")
	}
	data := elem.FirstChild(nil, true)
	if data == nil || data.Kind() != xmldom.Data || string(data.Value()) != "hi" {
		t.Fatalf("expected one data child with value hi, got %v", data)
	}
}

func TestParseEntityAndNumericReference(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<t>a&amp;b&#x41;c</t>`)
	doc, err := Parse(a, buf, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	elem := doc.FirstChild(nil, true)
	want := "a&bAc"
	if string(elem.Value()) != want {
		t.Fatalf("element value = %q, want %q", elem.Value(), want)
	}
	data := elem.FirstChild(nil, true)
	if string(data.Value()) != want {
		t.Fatalf("data value = %q, want %q", data.Value(), want)
	}
}

func TestParseNormalizeAndTrimWhitespace(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<t>  a   b  </t>`)
	doc, err := Parse(a, buf, TrimWhitespace|NormalizeWhitespace)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	elem := doc.FirstChild(nil, true)
	want := "a b"
	if string(elem.Value()) != want {
		t.Fatalf("element value = %q, want %q", elem.Value(), want)
	}
}

func TestParseDeclarationNode(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<?xml version="1.0"?><r/>`)
	doc, err := Parse(a, buf, DeclarationNode)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	decl := doc.FirstChild(nil, true)
	if decl == nil || decl.Kind() != xmldom.Declaration {
		t.Fatalf("expected declaration first child, got %v", decl)
	}
	version := decl.FirstAttribute(nil, true)
	if version == nil || string(version.Name()) != "version" || string(version.Value()) != "1.0" {
		t.Fatalf("declaration attribute wrong: %v", version)
	}
	r := decl.NextSibling(nil, true)
	if r == nil || r.Kind() != xmldom.Element || string(r.Name()) != "r" {
		t.Fatalf("expected element r after declaration, got %v", r)
	}
}

func TestParseClosingTagValidationFailure(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<a></b>`)
	_, err := Parse(a, buf, ValidateClosingTags)
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Message != errInvalidClosingTagName {
		t.Fatalf("message = %q, want %q", pe.Message, errInvalidClosingTagName)
	}
	if buf[pe.Offset] != 'b' {
		t.Fatalf("offset %d points at %q, want 'b'", pe.Offset, buf[pe.Offset])
	}
}

func TestParseClosingTagCandidatesIncludeAncestorsAndSiblings(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<outer><inner><child/></inner></outr>`)
	_, err := Parse(a, buf, ValidateClosingTags)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Message != errInvalidClosingTagName {
		t.Fatalf("message = %q, want %q", pe.Message, errInvalidClosingTagName)
	}
	want := map[string]bool{"outer": true, "inner": true}
	for _, c := range pe.Candidates {
		if !want[c] {
			t.Fatalf("unexpected candidate %q in %v", c, pe.Candidates)
		}
		delete(want, c)
	}
	if len(want) != 0 {
		t.Fatalf("missing candidates %v, got %v", want, pe.Candidates)
	}
}

func TestParseCommentAndCDATANodes(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<r><!--hi--><![CDATA[<raw>]]></r>`)
	doc, err := Parse(a, buf, CommentNodes)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r := doc.FirstChild(nil, true)
	comment := r.FirstChild(nil, true)
	if comment == nil || comment.Kind() != xmldom.Comment || string(comment.Value()) != "hi" {
		t.Fatalf("expected comment node 'hi', got %v", comment)
	}
	cdata := comment.NextSibling(nil, true)
	if cdata == nil || cdata.Kind() != xmldom.CDATA || string(cdata.Value()) != "<raw>" {
		t.Fatalf("expected cdata node '<raw>', got %v", cdata)
	}
}

func TestParseDoctypeWithInternalSubset(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<!DOCTYPE html [ <!ELEMENT br EMPTY> ]><r/>`)
	doc, err := Parse(a, buf, DoctypeNode)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	dt := doc.FirstChild(nil, true)
	if dt == nil || dt.Kind() != xmldom.DOCTYPE {
		t.Fatalf("expected doctype node, got %v", dt)
	}
	r := dt.NextSibling(nil, true)
	if r == nil || string(r.Name()) != "r" {
		t.Fatalf("expected element r after doctype, got %v", r)
	}
}

func TestParseUnrecognizedBangIsSkipped(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<r><!WEIRD foo></r>`)
	doc, err := Parse(a, buf, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r := doc.FirstChild(nil, true)
	if r.FirstChild(nil, true) != nil {
		t.Fatal("expected unrecognized declaration to produce no node")
	}
}

func TestParseNonDestructivePreservesBuffer(t *testing.T) {
	a := arena.New()
	original := `<a x="1">hi</a>`
	buf := nulBuf(original)
	before := append([]byte(nil), buf...)

	_, err := Parse(a, buf, NonDestructive)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for i := range before {
		if buf[i] != before[i] {
			t.Fatalf("byte %d changed under NonDestructive: got %q, want %q", i, buf[i], before[i])
		}
	}
}

func TestParseSlicesAliasInputBuffer(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<a x="1">hi</a>`)
	doc, err := Parse(a, buf, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	elem := doc.FirstChild(nil, true)
	if &elem.Name()[0] == nil {
		t.Fatal("unreachable")
	}
	// The element's name slice must point somewhere inside buf.
	namePtr := &elem.Name()[0]
	found := false
	for i := range buf {
		if &buf[i] == namePtr {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected element name to alias the input buffer")
	}
}

func TestParseErrorExpectedElementName(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`< >`)
	_, err := Parse(a, buf, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	pe := err.(*ParseError)
	if pe.Message != errExpectedElementName {
		t.Fatalf("message = %q, want %q", pe.Message, errExpectedElementName)
	}
}

func TestParseErrorUnexpectedEndOfData(t *testing.T) {
	a := arena.New()
	buf := nulBuf(`<a>`)
	_, err := Parse(a, buf, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	pe := err.(*ParseError)
	if pe.Message != errUnexpectedEndOfData {
		t.Fatalf("message = %q, want %q", pe.Message, errUnexpectedEndOfData)
	}
}

func TestParseOutOfMemoryRecovered(t *testing.T) {
	a := arena.New()
	a.SetAllocator(func(int) []byte { return nil }, nil)

	var sb []byte
	sb = append(sb, "<root>"...)
	for i := 0; i < 4000; i++ {
		sb = append(sb, "<a/>"...)
	}
	sb = append(sb, "</root>"...)
	buf := nulBuf(string(sb))

	_, err := Parse(a, buf, 0)
	if err == nil {
		t.Fatal("expected out of memory error")
	}
	pe := err.(*ParseError)
	if pe.Message != errOutOfMemory {
		t.Fatalf("message = %q, want %q", pe.Message, errOutOfMemory)
	}
}
