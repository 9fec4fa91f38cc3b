package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrisuehlinger/htmltree/dom"
)

func newBody(s *Sink) Handle {
	body := s.CreateElement(dom.HTMLName("body"), nil)
	s.Append(s.Document(), NodeChild(body))
	return body
}

func TestSink_AppendMergesText(t *testing.T) {
	s := NewSink(nil)
	body := newBody(s)

	s.Append(body, TextChild("Hello"))
	s.Append(body, TextChild(", "))
	s.Append(body, TextChild("world"))

	children := s.Node(body).Children().Collect()
	require.Len(t, children, 1)
	assert.Equal(t, "Hello, world", children[0].AsText().Data())

	b := s.CreateElement(dom.HTMLName("b"), nil)
	s.Append(body, NodeChild(b))
	s.Append(body, TextChild("!"))
	assert.Len(t, s.Node(body).Children().Collect(), 3)
}

func TestSink_AppendBeforeSibling(t *testing.T) {
	s := NewSink(nil)
	body := newBody(s)
	s.Append(body, TextChild("a"))
	em := s.CreateElement(dom.HTMLName("em"), nil)
	s.Append(body, NodeChild(em))

	// Text before <em> merges into the preceding text node.
	s.AppendBeforeSibling(em, TextChild("b"))
	first := s.Node(body).FirstChild().AsText()
	require.NotNil(t, first)
	assert.Equal(t, "ab", first.Data())

	i := s.CreateElement(dom.HTMLName("i"), nil)
	s.AppendBeforeSibling(em, NodeChild(i))
	s.AppendBeforeSibling(i, TextChild("c"))

	var kinds []string
	for child := range s.Node(body).Children() {
		kinds = append(kinds, child.String())
	}
	assert.Equal(t, []string{`#text "abc"`, "<i>", "<em>"}, kinds)

	assert.PanicsWithError(t, "HierarchyRequestError: sibling has no parent", func() {
		s.AppendBeforeSibling(s.CreateElement(dom.HTMLName("u"), nil), TextChild("x"))
	})
}

func TestSink_AppendBasedOnParentNode(t *testing.T) {
	s := NewSink(nil)
	body := newBody(s)
	table := s.CreateElement(dom.HTMLName("table"), nil)
	s.Append(body, NodeChild(table))
	prev := s.CreateElement(dom.HTMLName("tbody"), nil)

	// Attached table: foster parent before it.
	s.AppendBasedOnParentNode(table, prev, TextChild("fostered"))
	assert.Equal(t, "fostered", s.Node(body).FirstChild().AsText().Data())

	// Detached table: append to the previous element.
	s.RemoveFromParent(table)
	assert.Nil(t, s.Node(table).Parent())
	s.AppendBasedOnParentNode(table, prev, TextChild("inside"))
	assert.Equal(t, "inside", s.Node(prev).TextContents())
}

func TestSink_QuirksModeOnlyTightens(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSink(zap.New(core))

	s.SetQuirksMode(dom.LimitedQuirks)
	s.SetQuirksMode(dom.NoQuirks)
	assert.Equal(t, dom.LimitedQuirks, s.Finish().QuirksMode())
	assert.Equal(t, 1, logs.FilterMessage("Ignoring quirks mode downgrade").Len())

	s.SetQuirksMode(dom.Quirks)
	s.SetQuirksMode(dom.LimitedQuirks)
	s.SetQuirksMode(dom.Quirks)
	assert.Equal(t, dom.Quirks, s.Finish().QuirksMode())
	assert.Equal(t, 2, logs.FilterMessage("Ignoring quirks mode downgrade").Len())
}

func TestSink_TemplateContents(t *testing.T) {
	s := NewSink(nil)
	body := newBody(s)
	tmpl := s.CreateElement(dom.HTMLName("template"), nil)
	s.Append(body, NodeChild(tmpl))

	contents := s.TemplateContents(tmpl)
	assert.True(t, s.SameNode(contents, s.TemplateContents(tmpl)), "contents handle must be stable")
	assert.False(t, s.SameNode(contents, tmpl))

	s.Append(contents, NodeChild(s.CreateElement(dom.HTMLName("p"), nil)))
	assert.False(t, s.Node(tmpl).HasChildNodes())
	assert.Equal(t, dom.DocumentNode, s.Node(contents).NodeType())

	replacement := NewSink(nil)
	other := s.register(replacement.Finish().AsNode())
	s.AssociateTemplateContents(tmpl, other)
	assert.True(t, s.SameNode(other, s.TemplateContents(tmpl)))

	assert.PanicsWithError(t, "HierarchyRequestError: template contents must be a document", func() {
		s.AssociateTemplateContents(tmpl, body)
	})
	div := s.CreateElement(dom.HTMLName("div"), nil)
	assert.Panics(t, func() { s.TemplateContents(div) })
}

func TestSink_AddAttrsIfMissing(t *testing.T) {
	s := NewSink(nil)
	h := s.CreateElement(dom.HTMLName("html"), []dom.Attribute{{Local: "lang", Value: "en"}})
	s.AddAttrsIfMissing(h, []dom.Attribute{
		{Local: "lang", Value: "fr"},
		{Local: "class", Value: "x"},
	})

	attrs := s.Node(h).AsElement().Attributes().Get()
	require.Equal(t, 2, attrs.Len())
	v, _ := attrs.Get("lang")
	assert.Equal(t, "en", v)
	v, _ = attrs.Get("class")
	assert.Equal(t, "x", v)
}

func TestSink_ReparentChildren(t *testing.T) {
	s := NewSink(nil)
	from := s.CreateElement(dom.HTMLName("b"), nil)
	to := s.CreateElement(dom.HTMLName("i"), nil)
	s.Append(to, TextChild("0"))
	for _, name := range []string{"x", "y", "z"} {
		s.Append(from, NodeChild(s.CreateElement(dom.HTMLName(name), nil)))
	}

	s.ReparentChildren(from, to)

	assert.False(t, s.Node(from).HasChildNodes())
	var names []string
	for child := range s.Node(to).Children() {
		names = append(names, child.String())
	}
	assert.Equal(t, []string{`#text "0"`, "<x>", "<y>", "<z>"}, names)
}

func TestSink_NodesAndNames(t *testing.T) {
	s := NewSink(nil)
	svg := dom.QualName{Namespace: dom.SVGNamespace, Local: "svg"}
	h := s.CreateElement(svg, nil)
	assert.Equal(t, svg, s.ElemName(h))

	c := s.CreateComment("note")
	pi := s.CreateProcessingInstruction("xml", "version=1")
	s.Append(s.Document(), NodeChild(c))
	s.Append(s.Document(), NodeChild(pi))
	s.AppendDoctype("html", "", "")

	doc := s.Finish()
	kids := doc.AsNode().Children().Collect()
	require.Len(t, kids, 3)
	assert.Equal(t, "note", kids[0].AsComment().Data())
	assert.Equal(t, "xml", kids[1].AsProcessingInstruction().Target())
	assert.Equal(t, "html", kids[2].AsDoctype().Name())

	assert.Panics(t, func() { s.ElemName(c) })
}

func TestSink_UnknownHandlePanics(t *testing.T) {
	s := NewSink(nil)
	assert.PanicsWithError(t, "HierarchyRequestError: unknown handle 42", func() {
		s.Append(s.Document(), NodeChild(42))
	})
	assert.PanicsWithError(t, "HierarchyRequestError: unknown handle -1", func() {
		s.Node(-1)
	})
}

func TestSink_StructuralViolationPanics(t *testing.T) {
	s := NewSink(nil)
	outer := s.CreateElement(dom.HTMLName("div"), nil)
	inner := s.CreateElement(dom.HTMLName("span"), nil)
	s.Append(outer, NodeChild(inner))

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, dom.HierarchyRequest)
	}()
	s.Append(inner, NodeChild(outer))
}
