package state

import (
	"fmt"

	"github.com/san-kum/molsim/internal/vec"
)

// Cell owns one particle array and tracks outstanding borrows.
type Cell[V vec.Vector] struct {
	name    string
	data    []V
	readers int
	writing bool
}

func NewCell[V vec.Vector](name string, data []V) *Cell[V] {
	return &Cell[V]{name: name, data: data}
}

func (c *Cell[V]) Name() string { return c.name }

// Len may be called while borrows are live.
func (c *Cell[V]) Len() int { return len(c.data) }

// Borrow returns a read handle. It panics if a Mut handle is live.
func (c *Cell[V]) Borrow() Ref[V] {
	if c.writing {
		panic(fmt.Sprintf("state: %s already mutably borrowed", c.name))
	}
	c.readers++
	return Ref[V]{cell: c, Data: c.data}
}

// BorrowMut returns the exclusive write handle. It panics if any handle is
// live.
func (c *Cell[V]) BorrowMut() Mut[V] {
	if c.writing {
		panic(fmt.Sprintf("state: %s already mutably borrowed", c.name))
	}
	if c.readers > 0 {
		panic(fmt.Sprintf("state: %s mutably borrowed while %d read borrows are live", c.name, c.readers))
	}
	c.writing = true
	return Mut[V]{cell: c, Data: c.data}
}

// Replace swaps in a new backing array.
func (c *Cell[V]) Replace(data []V) {
	m := c.BorrowMut()
	m.cell.data = data
	m.Release()
}

// Snapshot copies the array.
func (c *Cell[V]) Snapshot() []V {
	r := c.Borrow()
	defer r.Release()
	out := make([]V, len(r.Data))
	copy(out, r.Data)
	return out
}

// Ref is a shared read handle. Data must not be modified.
type Ref[V vec.Vector] struct {
	cell *Cell[V]
	Data []V
}

func (r *Ref[V]) Release() {
	if r.cell == nil {
		panic("state: read borrow released twice")
	}
	r.cell.readers--
	r.cell = nil
	r.Data = nil
}

// Mut is the exclusive write handle.
type Mut[V vec.Vector] struct {
	cell *Cell[V]
	Data []V
}

func (m *Mut[V]) Release() {
	if m.cell == nil {
		panic("state: mutable borrow released twice")
	}
	m.cell.writing = false
	m.cell = nil
	m.Data = nil
}
