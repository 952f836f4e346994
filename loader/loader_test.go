package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xreader-go/xreader/xmlparser"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadParsesDocument(t *testing.T) {
	path := writeTemp(t, "a.xml", `<a x="1">hi</a>`)

	l := New()
	res, err := l.Load(path)
	require.NoError(t, err)
	require.NotNil(t, res.Document)

	elem := res.Document.FirstChild(nil, true)
	require.NotNil(t, elem)
	require.Equal(t, "a", string(elem.Name()))
	require.Equal(t, "hi", string(elem.Value()))
	require.False(t, res.FromCache)
}

func TestLoadCachesByPathAndMtime(t *testing.T) {
	path := writeTemp(t, "a.xml", `<a/>`)

	l := New()
	first, err := l.Load(path)
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := l.Load(path)
	require.NoError(t, err)
	require.True(t, second.FromCache)

	if diff := cmp.Diff(first.Document.Name(), second.Document.Name()); diff != "" {
		t.Fatalf("cached document diverged from original (-first +second):\n%s", diff)
	}
}

func TestLoadSurfacesParseErrors(t *testing.T) {
	path := writeTemp(t, "bad.xml", `<a></b>`)

	l := New(WithFlags(xmlparser.ValidateClosingTags))
	_, err := l.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid closing tag name")
}

func TestLoadSuggestsClosestClosingTag(t *testing.T) {
	path := writeTemp(t, "typo.xml", `<widget></widgett>`)

	l := New(WithFlags(xmlparser.ValidateClosingTags))
	_, err := l.Load(path)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), `did you mean "widget"?`), err.Error())
}

func TestStrictAttrsSuggestsTypoFix(t *testing.T) {
	path := writeTemp(t, "attrs.xml", `<a widht="1"/>`)

	l := New(WithStrictAttrs("width", "height"))
	res, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, res.AttrSuggestions, 1)
	require.Equal(t, "widht", res.AttrSuggestions[0].Attr)
	require.Equal(t, "width", res.AttrSuggestions[0].Expected)
}

func TestCloseClearsCache(t *testing.T) {
	path := writeTemp(t, "a.xml", `<a/>`)

	l := New()
	_, err := l.Load(path)
	require.NoError(t, err)

	l.Close()

	res, err := l.Load(path)
	require.NoError(t, err)
	require.False(t, res.FromCache)
}
