package loader

import (
	"time"

	"github.com/google/uuid"

	"github.com/xreader-go/xreader/arena"
	"github.com/xreader-go/xreader/xmldom"
)

// Result is what Load returns for a successful parse. ID is stamped
// fresh on every call (even cache hits) so log lines from the same
// logical load — the cache lookup, a concurrent Watch event, a later
// StrictAttrs pass — can be correlated without touching the DOM itself.
type Result struct {
	ID       uuid.UUID
	Path     string
	Document *xmldom.Node
	Arena    *arena.Arena

	ParseDuration time.Duration
	FromCache     bool

	// AttrSuggestions is populated when the Loader was built with
	// WithStrictAttrs and at least one attribute name was edit-distance
	// close to, but not equal to, an expected schema name.
	AttrSuggestions []AttributeSuggestion
}
