package html

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/htmltree/dom"
)

// Handle identifies a node created through a Sink. Handle 0 is the document.
type Handle int

// Child is the payload of an insertion event: either an existing node or a
// run of character data that may be merged into a neighbouring text node.
type Child struct {
	Handle Handle
	Text   string
	isText bool
}

// NodeChild wraps a node handle for insertion.
func NodeChild(h Handle) Child {
	return Child{Handle: h}
}

// TextChild wraps character data for insertion.
func TextChild(text string) Child {
	return Child{Text: text, isText: true}
}

// IsText reports whether the payload is character data.
func (c Child) IsText() bool {
	return c.isText
}

// Sink turns tree construction events into mutations of a dom tree. It is
// the state object a tree builder drives while parsing.
//
// Events naming unknown handles or asking for impossible tree shapes panic
// with a *dom.DOMError: they indicate a broken tree builder and are not
// recoverable parse errors.
type Sink struct {
	log    *zap.Logger
	doc    *dom.Document
	nodes  []*dom.Node
	lookup map[*dom.Node]Handle
	errs   error
}

// NewSink creates a sink with a fresh, empty document.
func NewSink(log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sink{
		log:    log.Named("sink"),
		doc:    dom.NewDocument(),
		lookup: make(map[*dom.Node]Handle),
	}
	s.register(s.doc.AsNode())
	return s
}

func (s *Sink) register(n *dom.Node) Handle {
	if h, ok := s.lookup[n]; ok {
		return h
	}
	h := Handle(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.lookup[n] = h
	return h
}

// Node resolves a handle.
func (s *Sink) Node(h Handle) *dom.Node {
	if h < 0 || int(h) >= len(s.nodes) {
		panic(dom.ErrHierarchyRequest(fmt.Sprintf("unknown handle %d", h)))
	}
	return s.nodes[h]
}

func (s *Sink) element(h Handle) *dom.Element {
	el := s.Node(h).AsElement()
	if el == nil {
		panic(dom.ErrInvalidState(fmt.Sprintf("handle %d is not an element", h)))
	}
	return el
}

func mustMutate(err error) {
	if err != nil {
		panic(err)
	}
}

// Document returns the handle of the document being built.
func (s *Sink) Document() Handle {
	return 0
}

// CreateElement creates a detached element.
func (s *Sink) CreateElement(name dom.QualName, attrs []dom.Attribute) Handle {
	return s.register(dom.NewElement(name, dom.Attributes(attrs)).AsNode())
}

// CreateComment creates a detached comment.
func (s *Sink) CreateComment(text string) Handle {
	return s.register(dom.NewComment(text).AsNode())
}

// CreateProcessingInstruction creates a detached processing instruction.
func (s *Sink) CreateProcessingInstruction(target, data string) Handle {
	return s.register(dom.NewProcessingInstruction(target, data).AsNode())
}

// AppendDoctype appends a doctype to the document.
func (s *Sink) AppendDoctype(name, publicID, systemID string) {
	mustMutate(s.doc.AsNode().Append(dom.NewDoctype(name, publicID, systemID).AsNode()))
}

// Append inserts child as the last child of parent. Text is merged into
// the last child when that is a text node.
func (s *Sink) Append(parent Handle, child Child) {
	p := s.Node(parent)
	if child.isText {
		if last := p.LastChild().AsText(); last != nil {
			last.AppendData(child.Text)
			return
		}
		mustMutate(p.Append(dom.NewText(child.Text).AsNode()))
		return
	}
	mustMutate(p.Append(s.Node(child.Handle)))
}

// AppendBeforeSibling inserts child right before sibling. Text is merged
// into the node preceding sibling when that is a text node.
func (s *Sink) AppendBeforeSibling(sibling Handle, child Child) {
	sib := s.Node(sibling)
	if sib.Parent() == nil {
		panic(dom.ErrHierarchyRequest("sibling has no parent"))
	}
	if child.isText {
		if prev := sib.PreviousSibling().AsText(); prev != nil {
			prev.AppendData(child.Text)
			return
		}
		mustMutate(sib.InsertBefore(dom.NewText(child.Text).AsNode()))
		return
	}
	mustMutate(sib.InsertBefore(s.Node(child.Handle)))
}

// AppendBasedOnParentNode inserts before element when it is attached,
// and appends to prevElement otherwise. Tree builders use it for foster
// parenting.
func (s *Sink) AppendBasedOnParentNode(element, prevElement Handle, child Child) {
	if s.Node(element).Parent() != nil {
		s.AppendBeforeSibling(element, child)
		return
	}
	s.Append(prevElement, child)
}

// SetQuirksMode records the document mode. The mode only ever tightens
// during one parse; requests to loosen it are ignored.
func (s *Sink) SetQuirksMode(mode dom.QuirksMode) {
	cur, changed := s.doc.UpgradeQuirksMode(mode)
	if !changed && mode != cur {
		s.log.Debug("Ignoring quirks mode downgrade",
			zap.Stringer("current", cur), zap.Stringer("requested", mode))
	}
}

// TemplateContents returns the handle of a template element's contents document.
func (s *Sink) TemplateContents(target Handle) Handle {
	contents := s.element(target).TemplateContents()
	if contents == nil {
		panic(dom.ErrInvalidState(fmt.Sprintf("handle %d is not a template", target)))
	}
	return s.register(contents.AsNode())
}

// AssociateTemplateContents replaces the contents of a template element
// with the given document.
func (s *Sink) AssociateTemplateContents(target, contents Handle) {
	doc := s.Node(contents).AsDocument()
	if doc == nil {
		panic(dom.ErrHierarchyRequest("template contents must be a document"))
	}
	s.element(target).SetTemplateContents(doc)
}

// AddAttrsIfMissing adds the attributes target does not have yet.
func (s *Sink) AddAttrsIfMissing(target Handle, attrs []dom.Attribute) {
	s.element(target).Attributes().Update(func(as *dom.Attributes) {
		for _, a := range attrs {
			if _, ok := as.GetNS(a.Namespace, a.Local); !ok {
				as.SetNS(a)
			}
		}
	})
}

// RemoveFromParent detaches target.
func (s *Sink) RemoveFromParent(target Handle) {
	s.Node(target).Detach()
}

// ReparentChildren moves all children of node to the end of newParent, in order.
func (s *Sink) ReparentChildren(node, newParent Handle) {
	from, to := s.Node(node), s.Node(newParent)
	for child := range from.Children() {
		mustMutate(to.Append(child))
	}
}

// ElemName returns the qualified name of an element.
func (s *Sink) ElemName(target Handle) dom.QualName {
	return s.element(target).Name()
}

// SameNode reports whether both handles refer to the same node.
func (s *Sink) SameNode(a, b Handle) bool {
	return s.Node(a) == s.Node(b)
}

// ParseError records a recoverable parse error.
func (s *Sink) ParseError(msg string) {
	s.log.Debug("Parse error", zap.String("error", msg))
	s.errs = multierr.Append(s.errs, fmt.Errorf("parse error: %s", msg))
}

// Errors returns the parse errors reported so far, combined.
func (s *Sink) Errors() error {
	return s.errs
}

// Finish returns the constructed document.
func (s *Sink) Finish() *dom.Document {
	if n := len(multierr.Errors(s.errs)); n > 0 {
		s.log.Debug("Document finished with parse errors", zap.Int("count", n))
	}
	return s.doc
}
