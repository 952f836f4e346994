// Command xread is a thin CLI over the loader façade: load one XML file
// and either dump its tree or just validate it, or watch a directory and
// re-parse on every change. It plays the role the original rapidxml
// distillation's RapidXmlObject/XmlProcessor wrapper plays around the
// C++ core — a demo/inspection layer, not part of the parser itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/xreader-go/xreader/loader"
	"github.com/xreader-go/xreader/xmldom"
	"github.com/xreader-go/xreader/xmlparser"
)

func main() {
	var (
		dump        = flag.Bool("dump", false, "dump the parsed tree as a table")
		validate    = flag.Bool("validate", false, "parse and report success or the error location")
		watchDir    = flag.String("watch", "", "watch this directory for *.xml changes and re-parse on write")
		preset      = flag.String("flags", "full", "parser flag preset: full, fastest, non-destructive, default")
		strictAttrs = flag.String("strict-attrs", "", "comma-separated schema of expected attribute names")
		verbose     = flag.Bool("v", false, "debug-level logging")
	)
	flag.Parse()

	log := logrus.StandardLogger()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	flags, err := parsePreset(*preset)
	if err != nil {
		fmt.Fprintln(os.Stderr, "xread:", err)
		os.Exit(2)
	}

	opts := []loader.Option{loader.WithFlags(flags), loader.WithLogger(log)}
	if *strictAttrs != "" {
		opts = append(opts, loader.WithStrictAttrs(strings.Split(*strictAttrs, ",")...))
	}
	l := loader.New(opts...)

	if *watchDir != "" {
		runWatch(l, *watchDir)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: xread [-dump|-validate] [-flags preset] <file.xml>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	res, err := l.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xread: %v\n", err)
		os.Exit(1)
	}

	for _, s := range res.AttrSuggestions {
		fmt.Fprintf(os.Stderr, "xread: <%s %s=...>: did you mean %q?\n", s.Element, s.Attr, s.Expected)
	}

	switch {
	case *dump:
		dumpTree(os.Stdout, res.Document)
	case *validate:
		fmt.Printf("xread: %s is well-formed (%s)\n", path, res.ParseDuration)
	default:
		dumpTree(os.Stdout, res.Document)
	}
}

func parsePreset(name string) (xmlparser.Flags, error) {
	switch strings.ToLower(name) {
	case "full":
		return xmlparser.Full, nil
	case "fastest":
		return xmlparser.Fastest, nil
	case "non-destructive", "nondestructive":
		return xmlparser.NonDestructive, nil
	case "default":
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown -flags preset %q (want full, fastest, non-destructive, or default)", name)
	}
}

func runWatch(l *loader.Loader, dir string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events, err := l.Watch(ctx, dir, "*.xml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "xread: watch %s: %v\n", dir, err)
		os.Exit(1)
	}

	fmt.Printf("xread: watching %s for *.xml changes (ctrl-C to stop)\n", dir)
	for ev := range events {
		if ev.Err != nil {
			fmt.Fprintf(os.Stderr, "xread: %s: %v\n", ev.Path, ev.Err)
			continue
		}
		fmt.Printf("xread: reparsed %s (%s)\n", ev.Path, ev.Result.ParseDuration)
	}
}

// dumpTree renders doc's children as a table of kind/name/value/attrs/
// children, depth-first, using indentation on the name column to convey
// nesting. This is explicitly a diagnostic dump, not the XML
// printer/serializer spec.md excludes from the core — it never
// reproduces XML syntax.
func dumpTree(w io.Writer, doc *xmldom.Node) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"kind", "name", "value", "attrs", "children"})

	var walk func(n *xmldom.Node, depth int)
	walk = func(n *xmldom.Node, depth int) {
		name := strings.Repeat("  ", depth) + string(n.Name())
		table.Append([]string{
			n.Kind().String(),
			name,
			truncate(string(n.Value()), 40),
			fmt.Sprint(countAttrs(n)),
			fmt.Sprint(countChildren(n)),
		})
		for c := n.FirstChild(nil, true); c != nil; c = c.NextSibling(nil, true) {
			walk(c, depth+1)
		}
	}
	for c := doc.FirstChild(nil, true); c != nil; c = c.NextSibling(nil, true) {
		walk(c, 0)
	}

	table.Render()
}

func countAttrs(n *xmldom.Node) int {
	count := 0
	for a := n.FirstAttribute(nil, true); a != nil; a = a.NextAttribute(nil, true) {
		count++
	}
	return count
}

func countChildren(n *xmldom.Node) int {
	count := 0
	for c := n.FirstChild(nil, true); c != nil; c = c.NextSibling(nil, true) {
		count++
	}
	return count
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
