package xmlparser

// Flags selects parser behavior. The zero value parses with every
// feature that can be safely defaulted on: data/CDATA nodes are
// created, element values are mirrored, string terminators are written,
// entities are translated, numeric references are UTF-8 encoded, and
// declaration/comment/doctype/PI nodes and closing-tag validation are
// all off (matching the reference implementation's all-flags-clear
// default).
type Flags uint32

const (
	// NoDataNodes suppresses text/CDATA node creation; text may still
	// populate the enclosing element's value.
	NoDataNodes Flags = 1 << iota
	// NoElementValues stops the parser from mirroring the first text
	// run into the enclosing element's value.
	NoElementValues
	// NoStringTerminators stops the parser from writing NUL bytes into
	// the buffer after names and values, preserving the input exactly.
	NoStringTerminators
	// NoEntityTranslation leaves &name; and &#N; sequences verbatim.
	NoEntityTranslation
	// NoUTF8 makes numeric character references emit a single
	// truncated 8-bit byte instead of a UTF-8 encoding.
	NoUTF8
	// DeclarationNode emits the <?xml ... ?> prolog as a node.
	DeclarationNode
	// CommentNodes emits <!-- ... --> comments as nodes.
	CommentNodes
	// DoctypeNode emits <!DOCTYPE ...> as a node.
	DoctypeNode
	// PINodes emits <?target ...?> processing instructions as nodes.
	PINodes
	// ValidateClosingTags checks that each </name> matches the name of
	// the element it closes.
	ValidateClosingTags
	// TrimWhitespace strips leading and trailing whitespace from text
	// runs.
	TrimWhitespace
	// NormalizeWhitespace collapses whitespace runs within text nodes
	// to a single space. Never applied to attribute values.
	NormalizeWhitespace
)

const (
	// NonDestructive leaves the input buffer untouched outside of
	// parsing: no terminators written, no entity translation performed.
	NonDestructive = NoStringTerminators | NoEntityTranslation
	// Fastest adds NoDataNodes on top of NonDestructive, for callers
	// that only need the element/attribute skeleton.
	Fastest = NonDestructive | NoDataNodes
	// Full turns on every optional node kind and closing-tag
	// validation.
	Full = DeclarationNode | CommentNodes | DoctypeNode | PINodes | ValidateClosingTags
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }
