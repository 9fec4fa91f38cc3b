package html

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/htmltree/dom"
)

var elementNamespacePrefixes = map[string]string{
	dom.HTMLNamespace:   "",
	dom.SVGNamespace:    "svg",
	dom.MathMLNamespace: "math",
}

// toNetNode converts a dom subtree into a golang.org/x/net/html tree so
// that it can be serialized by html.Render. Template contents are emitted
// as children of the template element.
func toNetNode(n *dom.Node) *html.Node {
	out := &html.Node{}
	switch n.NodeType() {
	case dom.DocumentNode:
		out.Type = html.DocumentNode
	case dom.DocumentTypeNode:
		dt := n.AsDoctype()
		out.Type = html.DoctypeNode
		out.Data = dt.Name()
		if dt.PublicID() != "" {
			out.Attr = append(out.Attr, html.Attribute{Key: "public", Val: dt.PublicID()})
		}
		if dt.SystemID() != "" {
			out.Attr = append(out.Attr, html.Attribute{Key: "system", Val: dt.SystemID()})
		}
	case dom.TextNode:
		out.Type = html.TextNode
		out.Data = n.AsText().Data()
	case dom.CommentNode:
		out.Type = html.CommentNode
		out.Data = n.AsComment().Data()
	case dom.ProcessingInstructionNode:
		pi := n.AsProcessingInstruction()
		out.Type = html.RawNode
		out.Data = "<?" + pi.Target() + " " + pi.Data() + ">"
	case dom.ElementNode:
		el := n.AsElement()
		out.Type = html.ElementNode
		out.Data = el.LocalName()
		prefix, ok := elementNamespacePrefixes[el.Namespace()]
		if !ok {
			prefix = el.Namespace()
		}
		out.Namespace = prefix
		if prefix == "" {
			out.DataAtom = atom.Lookup([]byte(out.Data))
		}
		for a := range el.Attributes().Get().All() {
			out.Attr = append(out.Attr, html.Attribute{Namespace: a.Prefix, Key: a.Local, Val: a.Value})
		}
		if contents := el.TemplateContents(); contents != nil {
			n = contents.AsNode()
		}
	}
	for child := range n.Children() {
		out.AppendChild(toNetNode(child))
	}
	return out
}

// literalTextParents lists the HTML elements whose text children are
// serialized without escaping.
var literalTextParents = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

// Render writes the HTML serialization of n and its subtree to w.
func Render(w io.Writer, n *dom.Node) error {
	if t := n.AsText(); t != nil {
		if parent := n.Parent().AsElement(); parent != nil && parent.IsHTML() && literalTextParents[parent.LocalName()] {
			_, err := io.WriteString(w, t.Data())
			return err
		}
	}
	return html.Render(w, toNetNode(n))
}

// RenderString returns the HTML serialization of n.
func RenderString(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToFile serializes n into the file at path, replacing it.
func RenderToFile(path string, n *dom.Node) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := Render(f, n); err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}
	return nil
}
