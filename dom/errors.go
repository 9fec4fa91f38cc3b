package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is reports whether target is a DOMError of the same kind, so that the
// sentinels below can be used with errors.Is regardless of the message.
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name
}

// Error kinds usable with errors.Is.
var (
	HierarchyRequest = &DOMError{Name: "HierarchyRequestError"}
	NotFound         = &DOMError{Name: "NotFoundError"}
	Syntax           = &DOMError{Name: "SyntaxError"}
	BorrowConflict   = &DOMError{Name: "BorrowConflictError"}
	InvalidState     = &DOMError{Name: "InvalidStateError"}
)

// ErrHierarchyRequest creates a HierarchyRequestError. It is returned by the
// insertion methods when the requested mutation would break the tree shape.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: HierarchyRequest.Name, Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: NotFound.Name, Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: Syntax.Name, Message: message}
}

// ErrBorrowConflict creates a BorrowConflictError.
func ErrBorrowConflict(message string) *DOMError {
	return &DOMError{Name: BorrowConflict.Name, Message: message}
}

// ErrInvalidState creates an InvalidStateError.
func ErrInvalidState(message string) *DOMError {
	return &DOMError{Name: InvalidState.Name, Message: message}
}
