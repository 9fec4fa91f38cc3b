package dom

// Text represents a text node.
type Text Node

// NewText creates a detached text node.
func NewText(data string) *Text {
	node := newNode(TextNode)
	node.data = NewCell(data)
	return (*Text)(node)
}

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node {
	return (*Node)(t)
}

// Cell returns the cell guarding the character data.
func (t *Text) Cell() *Cell[string] {
	return t.data
}

// Data returns the character data.
func (t *Text) Data() string {
	return t.data.Get()
}

// SetData replaces the character data.
func (t *Text) SetData(data string) {
	t.data.Set(data)
}

// AppendData appends to the character data.
func (t *Text) AppendData(data string) {
	t.data.Update(func(s *string) { *s += data })
}
