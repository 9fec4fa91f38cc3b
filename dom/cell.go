package dom

// Cell guards a mutable value shared through node pointers. Any number of
// shared borrows may be open at once, or exactly one exclusive borrow.
// Violations are detected at run time: Borrow and BorrowMut panic with a
// BorrowConflictError, TryBorrow and TryBorrowMut return it.
//
// A Cell is a counter, not a lock. It is meant for single goroutine use.
type Cell[T any] struct {
	value T
	// state > 0 counts shared borrows, -1 marks an exclusive borrow.
	state int
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Ref is an open shared borrow of a Cell.
type Ref[T any] struct {
	cell     *Cell[T]
	released bool
}

// RefMut is an open exclusive borrow of a Cell.
type RefMut[T any] struct {
	cell     *Cell[T]
	released bool
}

// TryBorrow opens a shared borrow, failing while an exclusive one is open.
func (c *Cell[T]) TryBorrow() (*Ref[T], error) {
	if c.state < 0 {
		return nil, ErrBorrowConflict("value is already mutably borrowed")
	}
	c.state++
	return &Ref[T]{cell: c}, nil
}

// Borrow is TryBorrow that panics on conflict.
func (c *Cell[T]) Borrow() *Ref[T] {
	r, err := c.TryBorrow()
	if err != nil {
		panic(err)
	}
	return r
}

// TryBorrowMut opens an exclusive borrow, failing while any other borrow is open.
func (c *Cell[T]) TryBorrowMut() (*RefMut[T], error) {
	switch {
	case c.state < 0:
		return nil, ErrBorrowConflict("value is already mutably borrowed")
	case c.state > 0:
		return nil, ErrBorrowConflict("value is already borrowed")
	}
	c.state = -1
	return &RefMut[T]{cell: c}, nil
}

// BorrowMut is TryBorrowMut that panics on conflict.
func (c *Cell[T]) BorrowMut() *RefMut[T] {
	r, err := c.TryBorrowMut()
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns a copy of the value under a short shared borrow.
func (c *Cell[T]) Get() T {
	r := c.Borrow()
	defer r.Release()
	return r.Get()
}

// Set replaces the value under a short exclusive borrow.
func (c *Cell[T]) Set(v T) {
	r := c.BorrowMut()
	defer r.Release()
	r.Set(v)
}

// Update runs fn on the value under a short exclusive borrow.
func (c *Cell[T]) Update(fn func(*T)) {
	r := c.BorrowMut()
	defer r.Release()
	fn(r.Ptr())
}

// Get returns the borrowed value.
func (r *Ref[T]) Get() T {
	if r.released {
		panic(ErrInvalidState("use of released borrow"))
	}
	return r.cell.value
}

// Release ends the borrow. Releasing twice has no effect.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.state--
}

// Get returns the borrowed value.
func (r *RefMut[T]) Get() T {
	return *r.Ptr()
}

// Set replaces the borrowed value.
func (r *RefMut[T]) Set(v T) {
	*r.Ptr() = v
}

// Ptr gives in-place access to the value. The pointer must not outlive the borrow.
func (r *RefMut[T]) Ptr() *T {
	if r.released {
		panic(ErrInvalidState("use of released borrow"))
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing twice has no effect.
func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.state = 0
}
