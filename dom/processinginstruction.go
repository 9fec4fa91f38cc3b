package dom

// ProcessingInstruction represents a processing instruction node.
type ProcessingInstruction Node

// NewProcessingInstruction creates a detached processing instruction.
func NewProcessingInstruction(target, data string) *ProcessingInstruction {
	node := newNode(ProcessingInstructionNode)
	node.target = target
	node.data = NewCell(data)
	return (*ProcessingInstruction)(node)
}

// AsNode returns the underlying Node.
func (pi *ProcessingInstruction) AsNode() *Node {
	return (*Node)(pi)
}

// Target returns the target of the processing instruction.
func (pi *ProcessingInstruction) Target() string {
	return pi.target
}

// Cell returns the cell guarding the instruction data.
func (pi *ProcessingInstruction) Cell() *Cell[string] {
	return pi.data
}

// Data returns the instruction data.
func (pi *ProcessingInstruction) Data() string {
	return pi.data.Get()
}

// SetData replaces the instruction data.
func (pi *ProcessingInstruction) SetData(data string) {
	pi.data.Set(data)
}
