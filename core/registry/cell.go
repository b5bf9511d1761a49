package registry

import "fmt"

// Cell holds one type-erased channel endpoint.
type Cell struct {
	name  string
	value any
}

// NewCell wraps value. name is the owning kind's debug name, used in diagnostics.
func NewCell(name string, value any) *Cell {
	return &Cell{name: name, value: value}
}

// Name returns the debug name of the kind the cell belongs to.
func (c *Cell) Name() string { return c.name }

// Value returns the stored value as any.
func (c *Cell) Value() any { return c.value }

// Load returns the cell's value as T. Panics if the cell holds a different type.
func Load[T any](c *Cell) T {
	v, ok := c.value.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("registry: cell %q holds %T, not %T", c.name, c.value, want))
	}
	return v
}

// TryLoad returns the cell's value as T and whether the type matched.
func TryLoad[T any](c *Cell) (T, bool) {
	v, ok := c.value.(T)
	return v, ok
}
