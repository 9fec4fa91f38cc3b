// Package html builds dom trees from HTML markup and serializes them back.
//
// Tree construction itself is done by golang.org/x/net/html; the resulting
// tree is replayed as construction events against a Sink, which owns the
// dom-specific rules (text merging, template contents, quirks mode).
package html

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/htmltree/dom"
)

// FragmentContext describes the element a fragment is parsed in. A Name
// without a namespace is resolved through its prefix: first against
// Namespaces, then against the "svg" and "math" prefixes, and otherwise
// it is taken to be an HTML element. An empty context means <body>.
type FragmentContext struct {
	Name       dom.QualName
	Namespaces map[string]string
}

// Context returns the fragment context for an HTML element.
func Context(local string) FragmentContext {
	return FragmentContext{Name: dom.HTMLName(local)}
}

func (fc FragmentContext) resolve() dom.QualName {
	name := fc.Name
	if name.Local == "" {
		return dom.HTMLName("body")
	}
	if name.Namespace != "" {
		return name
	}
	if uri, ok := fc.Namespaces[name.Prefix]; ok && name.Prefix != "" {
		name.Namespace = uri
		return name
	}
	switch name.Prefix {
	case "svg":
		name.Namespace = dom.SVGNamespace
	case "math":
		name.Namespace = dom.MathMLNamespace
	default:
		name.Namespace = dom.HTMLNamespace
	}
	return name
}

// namespace URIs by the short names golang.org/x/net/html uses.
var elementNamespaces = map[string]string{
	"":     dom.HTMLNamespace,
	"svg":  dom.SVGNamespace,
	"math": dom.MathMLNamespace,
}

var attributeNamespaces = map[string]string{
	"xlink": dom.XLinkNamespace,
	"xml":   dom.XMLNamespace,
	"xmlns": dom.XMLNSNamespace,
}

// Parser drives a Sink from golang.org/x/net/html parse results.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. A nil logger disables logging.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("html")}
}

// Build parses a complete document from r into sink.
func (p *Parser) Build(r io.Reader, sink *Sink) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("unable to parse document: %w", err)
	}
	sawDoctype := false
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			sawDoctype = true
			p.doctype(sink, c)
			continue
		}
		p.replay(sink, sink.Document(), c)
	}
	if !sawDoctype {
		sink.ParseError("missing doctype")
		sink.SetQuirksMode(dom.Quirks)
	}
	return nil
}

// BuildFragment parses a fragment from r into sink. The sink's document
// receives an html element whose children are the fragment nodes.
func (p *Parser) BuildFragment(r io.Reader, fc FragmentContext, sink *Sink) error {
	name := fc.resolve()
	short := ""
	for k, v := range elementNamespaces {
		if v == name.Namespace {
			short = k
		}
	}
	ctx := &html.Node{
		Type:      html.ElementNode,
		Data:      name.Local,
		DataAtom:  atom.Lookup([]byte(name.Local)),
		Namespace: short,
	}
	p.log.Debug("Parsing fragment", zap.Stringer("context", name), zap.String("namespace", name.Namespace))

	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return fmt.Errorf("unable to parse fragment in <%s>: %w", name, err)
	}
	htmlElem := sink.CreateElement(dom.HTMLName("html"), nil)
	sink.Append(sink.Document(), NodeChild(htmlElem))
	for _, n := range nodes {
		p.replay(sink, htmlElem, n)
	}
	return nil
}

func (p *Parser) doctype(sink *Sink, n *html.Node) {
	var public, system string
	hasSystem := false
	for _, a := range n.Attr {
		switch a.Key {
		case "public":
			public = a.Val
		case "system":
			system = a.Val
			hasSystem = true
		}
	}
	if n.Data != "html" {
		sink.ParseError(fmt.Sprintf("unexpected doctype name %q", n.Data))
	}
	sink.AppendDoctype(n.Data, public, system)
	sink.SetQuirksMode(doctypeQuirksMode(n.Data, public, system, hasSystem))
}

// replay emits the construction events for n and its subtree under parent.
func (p *Parser) replay(sink *Sink, parent Handle, n *html.Node) {
	switch n.Type {
	case html.TextNode, html.RawNode:
		sink.Append(parent, TextChild(n.Data))
	case html.CommentNode:
		sink.Append(parent, NodeChild(sink.CreateComment(n.Data)))
	case html.DoctypeNode:
		// Only valid directly under the document, handled by Build.
		sink.ParseError("doctype in body")
	case html.ElementNode:
		elem := sink.CreateElement(elementName(n), attributes(n.Attr))
		sink.Append(parent, NodeChild(elem))
		target := elem
		if n.Namespace == "" && n.DataAtom == atom.Template {
			target = sink.TemplateContents(elem)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.replay(sink, target, c)
		}
	default:
		p.log.Warn("Skipping unexpected node", zap.Int("type", int(n.Type)))
	}
}

func elementName(n *html.Node) dom.QualName {
	ns, ok := elementNamespaces[n.Namespace]
	if !ok {
		ns = n.Namespace
	}
	return dom.QualName{Namespace: ns, Local: n.Data}
}

func attributes(attrs []html.Attribute) []dom.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]dom.Attribute, 0, len(attrs))
	for _, a := range attrs {
		attr := dom.Attribute{Local: a.Key, Value: a.Val}
		if a.Namespace != "" {
			attr.Prefix = a.Namespace
			attr.Namespace = attributeNamespaces[a.Namespace]
		}
		out = append(out, attr)
	}
	return out
}

// Parse parses a complete document from r.
func (p *Parser) Parse(r io.Reader) (*dom.Document, error) {
	sink := NewSink(p.log)
	if err := p.Build(r, sink); err != nil {
		return nil, err
	}
	return sink.Finish(), nil
}

// ParseFragment parses a fragment from r in the given context.
func (p *Parser) ParseFragment(r io.Reader, fc FragmentContext) (*dom.Document, error) {
	sink := NewSink(p.log)
	if err := p.BuildFragment(r, fc, sink); err != nil {
		return nil, err
	}
	return sink.Finish(), nil
}

// ParseFile parses the document stored at path.
func (p *Parser) ParseFile(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse parses a complete document from a string.
func Parse(s string) (*dom.Document, error) {
	return NewParser(nil).Parse(strings.NewReader(s))
}

// ParseFragment parses a fragment from a string in the given context.
func ParseFragment(s string, fc FragmentContext) (*dom.Document, error) {
	return NewParser(nil).ParseFragment(strings.NewReader(s), fc)
}

// ParseFile parses the document stored at path.
func ParseFile(path string) (*dom.Document, error) {
	return NewParser(nil).ParseFile(path)
}
