// Package xmldom is the passive tree model produced by xmlparser: nodes,
// attributes, their ordered sibling lists and the mutation operations that
// keep those lists consistent.
//
// Every Node and Attribute is carved from an *arena.Arena by NewNode /
// NewAttribute; there is no per-node Go allocation and no per-node free.
// Name and value byte slices point into the original input buffer handed
// to the parser, or into whatever memory a caller set them to (such as an
// arena copy from AllocateString). Neither the parser nor CloneNode copies
// them; xmldom never copies them itself.
//
// Unlike the C++ original this package has no null-pointer hazard: a nil
// []byte behaves exactly like an empty one, so there is no need for a
// shared one-byte sentinel object the way the reference implementation
// requires for its raw Ch* fields.
package xmldom

import (
	"unsafe"

	"github.com/xreader-go/xreader/arena"
)

// Kind identifies the closed set of node variants the parser produces.
type Kind uint8

const (
	// Document is the root of a parsed tree. Name and Value are empty; a
	// Document never appears as anyone's child.
	Document Kind = iota
	// Element carries the tag in Name; Value mirrors the text of the
	// first data child, if any (see spec §4.3 "Element value mirror").
	Element
	// Data is a PCDATA run. Name is empty.
	Data
	// CDATA is verbatim `<![CDATA[ ... ]]>` content. Name is empty.
	CDATA
	// Comment is verbatim `<!-- ... -->` content. Name is empty.
	Comment
	// Declaration is the `<?xml ... ?>` prolog. Name and Value are
	// empty; version/encoding/standalone live as ordinary attributes.
	Declaration
	// DOCTYPE is the verbatim `<!DOCTYPE ...>` body. Name is empty.
	DOCTYPE
	// PI is a processing instruction; Name is the target, Value the body.
	PI
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document"
	case Element:
		return "element"
	case Data:
		return "data"
	case CDATA:
		return "cdata"
	case Comment:
		return "comment"
	case Declaration:
		return "declaration"
	case DOCTYPE:
		return "doctype"
	case PI:
		return "pi"
	default:
		return "unknown"
	}
}

// Node is one element of the parsed tree. All fields are carved from an
// arena; the struct is laid out to be allocated with a single
// arena.AllocateAligned call via NewNode.
type Node struct {
	kind Kind

	name  []byte
	value []byte

	parent *Node

	firstChild, lastChild *Node
	prevSibling, nextSibling *Node

	firstAttr, lastAttr *Attribute
}

// Attribute is one name/value pair carved from an arena and linked into
// its owning Node's attribute list.
type Attribute struct {
	name  []byte
	value []byte

	parent *Node

	prevAttr, nextAttr *Attribute
}

// NewNode carves a fresh Node for kind out of a, with no name, value,
// parent, children or attributes.
func NewNode(a *arena.Arena, kind Kind) *Node {
	n := allocNode(a)
	*n = Node{kind: kind}
	return n
}

// NewAttribute carves a fresh, detached Attribute out of a.
func NewAttribute(a *arena.Arena) *Attribute {
	at := allocAttribute(a)
	*at = Attribute{}
	return at
}

func allocNode(a *arena.Arena) *Node {
	buf := a.AllocateAligned(int(unsafe.Sizeof(Node{})))
	return (*Node)(unsafe.Pointer(&buf[0]))
}

func allocAttribute(a *arena.Arena) *Attribute {
	buf := a.AllocateAligned(int(unsafe.Sizeof(Attribute{})))
	return (*Attribute)(unsafe.Pointer(&buf[0]))
}

// Kind returns the node's (immutable, post-allocation) kind. Retype
// changes it at document/element boundaries only — see Retype.
func (n *Node) Kind() Kind { return n.kind }

// Retype changes a node's kind in place. It exists only to support the
// document/element boundary retype spec §3 calls out (a freshly allocated
// root node promoted to Document, or vice-versa during CloneNode reuse);
// it does not attempt to validate that the new kind's invariants
// (e.g. an Element's value mirror) already hold.
func (n *Node) Retype(kind Kind) { n.kind = kind }

// Name returns the node's name slice: the element tag, or the PI target.
// Empty for every other kind.
func (n *Node) Name() []byte { return n.name }

// Value returns the node's value slice: the data/cdata/comment/doctype
// body, the PI instructions, or the mirrored text of an element's first
// data child.
func (n *Node) Value() []byte { return n.value }

// SetName overwrites the node's name slice in place. The caller is
// responsible for the slice's lifetime (buffer-aliased or arena-copied).
func (n *Node) SetName(name []byte) { n.name = name }

// SetValue overwrites the node's value slice in place.
func (n *Node) SetValue(value []byte) { n.value = value }

// Parent returns the node's parent, or nil if detached.
func (n *Node) Parent() *Node { return n.parent }

// Document walks parents up to the root and returns it if it is a
// Document node, or nil if this node is not attached to one.
func (n *Node) Document() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	if cur.kind == Document {
		return cur
	}
	return nil
}

// Name returns the attribute's name slice.
func (at *Attribute) Name() []byte { return at.name }

// Value returns the attribute's value slice.
func (at *Attribute) Value() []byte { return at.value }

// SetName overwrites the attribute's name slice in place.
func (at *Attribute) SetName(name []byte) { at.name = name }

// SetValue overwrites the attribute's value slice in place.
func (at *Attribute) SetValue(value []byte) { at.value = value }

// Parent returns the Node this attribute is attached to, or nil if
// detached.
func (at *Attribute) Parent() *Node { return at.parent }
