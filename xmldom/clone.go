package xmldom

import "github.com/xreader-go/xreader/arena"

// CloneNode deep-clones n — its own kind, name and value, every
// attribute and every descendant — into dst, returning the new root.
// Name and value slices are copied by reference, not by byte content: the
// clone aliases the same underlying bytes as the source, matching
// rapidxml's clone_node (it duplicates node/attribute structure, not
// string data). Callers that need independent storage should copy
// name/value through dst.AllocateString themselves before or after
// cloning.
//
// If result is non-nil it is reused in place: its existing attributes and
// children are detached first, it is retyped to n's kind, and the clone is
// written into it. Otherwise a fresh node is allocated from dst. Either
// way the returned *Node is result's value when result is non-nil.
// Descendants are always freshly allocated — only the top-level call
// reuses a node, matching rapidxml's memory_pool::clone_node, whose
// recursive calls for child nodes never pass a result of their own.
func CloneNode(dst *arena.Arena, n *Node, result *Node) *Node {
	out := result
	if out != nil {
		out.RemoveAllAttributes()
		out.RemoveAllChildren()
		out.Retype(n.kind)
	} else {
		out = NewNode(dst, n.kind)
	}
	out.name = n.name
	out.value = n.value

	for a := n.firstAttr; a != nil; a = a.nextAttr {
		clonedAttr := NewAttribute(dst)
		clonedAttr.name = a.name
		clonedAttr.value = a.value
		out.AppendAttribute(clonedAttr)
	}

	for c := n.firstChild; c != nil; c = c.nextSibling {
		out.AppendChild(CloneNode(dst, c, nil))
	}

	return out
}
