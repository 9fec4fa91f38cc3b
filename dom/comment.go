package dom

// Comment represents a comment node.
type Comment Node

// NewComment creates a detached comment node.
func NewComment(data string) *Comment {
	node := newNode(CommentNode)
	node.data = NewCell(data)
	return (*Comment)(node)
}

// AsNode returns the underlying Node.
func (c *Comment) AsNode() *Node {
	return (*Node)(c)
}

// Cell returns the cell guarding the comment text.
func (c *Comment) Cell() *Cell[string] {
	return c.data
}

// Data returns the comment text.
func (c *Comment) Data() string {
	return c.data.Get()
}

// SetData replaces the comment text.
func (c *Comment) SetData(data string) {
	c.data.Set(data)
}
