package xmldom

import "bytes"

// equalName compares a and b, optionally ignoring ASCII case. It backs
// every name-filtered traversal method below.
func equalName(a, b []byte, caseSensitive bool) bool {
	if caseSensitive {
		return bytes.Equal(a, b)
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if foldASCII(a[i]) != foldASCII(b[i]) {
			return false
		}
	}
	return true
}

func foldASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// FirstChild returns the first child whose name matches, or the first
// child of any name if name is nil. caseSensitive controls how name is
// compared; it is ignored when name is nil.
func (n *Node) FirstChild(name []byte, caseSensitive bool) *Node {
	if name == nil {
		return n.firstChild
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if equalName(c.name, name, caseSensitive) {
			return c
		}
	}
	return nil
}

// LastChild returns the last child whose name matches, or the last child
// of any name if name is nil.
func (n *Node) LastChild(name []byte, caseSensitive bool) *Node {
	if name == nil {
		return n.lastChild
	}
	for c := n.lastChild; c != nil; c = c.prevSibling {
		if equalName(c.name, name, caseSensitive) {
			return c
		}
	}
	return nil
}

// NextSibling returns the next sibling whose name matches, or the next
// sibling of any name if name is nil.
func (n *Node) NextSibling(name []byte, caseSensitive bool) *Node {
	if name == nil {
		return n.nextSibling
	}
	for s := n.nextSibling; s != nil; s = s.nextSibling {
		if equalName(s.name, name, caseSensitive) {
			return s
		}
	}
	return nil
}

// PreviousSibling returns the previous sibling whose name matches, or the
// previous sibling of any name if name is nil.
func (n *Node) PreviousSibling(name []byte, caseSensitive bool) *Node {
	if name == nil {
		return n.prevSibling
	}
	for s := n.prevSibling; s != nil; s = s.prevSibling {
		if equalName(s.name, name, caseSensitive) {
			return s
		}
	}
	return nil
}

// FirstAttribute returns the first attribute whose name matches, or the
// first attribute of any name if name is nil.
func (n *Node) FirstAttribute(name []byte, caseSensitive bool) *Attribute {
	if name == nil {
		return n.firstAttr
	}
	for a := n.firstAttr; a != nil; a = a.nextAttr {
		if equalName(a.name, name, caseSensitive) {
			return a
		}
	}
	return nil
}

// LastAttribute returns the last attribute whose name matches, or the
// last attribute of any name if name is nil.
func (n *Node) LastAttribute(name []byte, caseSensitive bool) *Attribute {
	if name == nil {
		return n.lastAttr
	}
	for a := n.lastAttr; a != nil; a = a.prevAttr {
		if equalName(a.name, name, caseSensitive) {
			return a
		}
	}
	return nil
}

// NextAttribute returns the attribute following at in its owner's list,
// optionally filtered by name.
func (at *Attribute) NextAttribute(name []byte, caseSensitive bool) *Attribute {
	if name == nil {
		return at.nextAttr
	}
	for a := at.nextAttr; a != nil; a = a.nextAttr {
		if equalName(a.name, name, caseSensitive) {
			return a
		}
	}
	return nil
}

// PreviousAttribute returns the attribute preceding at in its owner's
// list, optionally filtered by name.
func (at *Attribute) PreviousAttribute(name []byte, caseSensitive bool) *Attribute {
	if name == nil {
		return at.prevAttr
	}
	for a := at.prevAttr; a != nil; a = a.prevAttr {
		if equalName(a.name, name, caseSensitive) {
			return a
		}
	}
	return nil
}

// Attribute is a convenience lookup equivalent to
// FirstAttribute(name, true) returning just the value, nil if absent.
// Used by the loader façade to read declaration pseudo-attributes such
// as encoding without reaching into the attribute list directly.
func (n *Node) Attribute(name []byte) ([]byte, bool) {
	a := n.FirstAttribute(name, true)
	if a == nil {
		return nil, false
	}
	return a.value, true
}

// PrependChild inserts child as this node's first child. child must be
// detached (no parent, no siblings).
func (n *Node) PrependChild(child *Node) {
	child.checkDetached()
	child.parent = n
	if n.firstChild != nil {
		child.nextSibling = n.firstChild
		n.firstChild.prevSibling = child
	} else {
		n.lastChild = child
	}
	n.firstChild = child
}

// AppendChild inserts child as this node's last child. child must be
// detached.
func (n *Node) AppendChild(child *Node) {
	child.checkDetached()
	child.parent = n
	if n.lastChild != nil {
		child.prevSibling = n.lastChild
		n.lastChild.nextSibling = child
	} else {
		n.firstChild = child
	}
	n.lastChild = child
}

// InsertChildBefore inserts child immediately before where, which must
// already be a child of n (or nil, meaning append at the end). child
// must be detached.
func (n *Node) InsertChildBefore(child, where *Node) {
	child.checkDetached()
	if where == nil {
		n.AppendChild(child)
		return
	}
	child.parent = n
	child.nextSibling = where
	child.prevSibling = where.prevSibling
	if where.prevSibling != nil {
		where.prevSibling.nextSibling = child
	} else {
		n.firstChild = child
	}
	where.prevSibling = child
}

// RemoveFirstChild detaches and returns this node's first child, or nil
// if it has none.
func (n *Node) RemoveFirstChild() *Node {
	c := n.firstChild
	if c == nil {
		return nil
	}
	n.removeChild(c)
	return c
}

// RemoveLastChild detaches and returns this node's last child, or nil if
// it has none.
func (n *Node) RemoveLastChild() *Node {
	c := n.lastChild
	if c == nil {
		return nil
	}
	n.removeChild(c)
	return c
}

// RemoveChild detaches child, which must be a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n {
		panic("xmldom: RemoveChild called with a node that is not a child of n")
	}
	n.removeChild(child)
}

func (n *Node) removeChild(c *Node) {
	if c.prevSibling != nil {
		c.prevSibling.nextSibling = c.nextSibling
	} else {
		n.firstChild = c.nextSibling
	}
	if c.nextSibling != nil {
		c.nextSibling.prevSibling = c.prevSibling
	} else {
		n.lastChild = c.prevSibling
	}
	c.parent = nil
	c.prevSibling = nil
	c.nextSibling = nil
}

// RemoveAllChildren detaches every child of n.
func (n *Node) RemoveAllChildren() {
	for c := n.firstChild; c != nil; {
		next := c.nextSibling
		c.parent = nil
		c.prevSibling = nil
		c.nextSibling = nil
		c = next
	}
	n.firstChild = nil
	n.lastChild = nil
}

func (n *Node) checkDetached() {
	if n.parent != nil || n.prevSibling != nil || n.nextSibling != nil {
		panic("xmldom: node must be detached before insertion")
	}
}

// PrependAttribute inserts attr as n's first attribute. attr must be
// detached.
func (n *Node) PrependAttribute(attr *Attribute) {
	attr.checkDetached()
	attr.parent = n
	if n.firstAttr != nil {
		attr.nextAttr = n.firstAttr
		n.firstAttr.prevAttr = attr
	} else {
		n.lastAttr = attr
	}
	n.firstAttr = attr
}

// AppendAttribute inserts attr as n's last attribute. attr must be
// detached.
func (n *Node) AppendAttribute(attr *Attribute) {
	attr.checkDetached()
	attr.parent = n
	if n.lastAttr != nil {
		attr.prevAttr = n.lastAttr
		n.lastAttr.nextAttr = attr
	} else {
		n.firstAttr = attr
	}
	n.lastAttr = attr
}

// InsertAttributeBefore inserts attr immediately before where, which
// must already be an attribute of n (or nil, meaning append at the end).
func (n *Node) InsertAttributeBefore(attr, where *Attribute) {
	attr.checkDetached()
	if where == nil {
		n.AppendAttribute(attr)
		return
	}
	attr.parent = n
	attr.nextAttr = where
	attr.prevAttr = where.prevAttr
	if where.prevAttr != nil {
		where.prevAttr.nextAttr = attr
	} else {
		n.firstAttr = attr
	}
	where.prevAttr = attr
}

// RemoveFirstAttribute detaches and returns n's first attribute, or nil.
func (n *Node) RemoveFirstAttribute() *Attribute {
	a := n.firstAttr
	if a == nil {
		return nil
	}
	n.removeAttribute(a)
	return a
}

// RemoveLastAttribute detaches and returns n's last attribute, or nil.
func (n *Node) RemoveLastAttribute() *Attribute {
	a := n.lastAttr
	if a == nil {
		return nil
	}
	n.removeAttribute(a)
	return a
}

// RemoveAttribute detaches attr, which must belong to n.
func (n *Node) RemoveAttribute(attr *Attribute) {
	if attr.parent != n {
		panic("xmldom: RemoveAttribute called with an attribute that does not belong to n")
	}
	n.removeAttribute(attr)
}

func (n *Node) removeAttribute(a *Attribute) {
	if a.prevAttr != nil {
		a.prevAttr.nextAttr = a.nextAttr
	} else {
		n.firstAttr = a.nextAttr
	}
	if a.nextAttr != nil {
		a.nextAttr.prevAttr = a.prevAttr
	} else {
		n.lastAttr = a.prevAttr
	}
	a.parent = nil
	a.prevAttr = nil
	a.nextAttr = nil
}

// RemoveAllAttributes detaches every attribute of n.
func (n *Node) RemoveAllAttributes() {
	for a := n.firstAttr; a != nil; {
		next := a.nextAttr
		a.parent = nil
		a.prevAttr = nil
		a.nextAttr = nil
		a = next
	}
	n.firstAttr = nil
	n.lastAttr = nil
}

func (at *Attribute) checkDetached() {
	if at.parent != nil || at.prevAttr != nil || at.nextAttr != nil {
		panic("xmldom: attribute must be detached before insertion")
	}
}
