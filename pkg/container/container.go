// Package container provides an append-only collection that reports its
// minimum element by linear scan.
package container

import (
	"cmp"
	"errors"
)

// ErrEmpty is returned by FindMin when the container holds no elements.
var ErrEmpty = errors.New("container is empty")

// Comparable is implemented by types that can order themselves against
// another value of the same type. Compare returns a negative number when the
// receiver sorts before other, zero when they are equal, and a positive
// number otherwise.
type Comparable[T any] interface {
	Compare(other T) int
}

// Container is an insertion-ordered sequence of elements.
//
// A Container is not safe for concurrent use; callers must serialize Add and
// FindMin themselves.
type Container[T any] struct {
	// elements holds values in insertion order
	elements []T

	// compare orders two elements
	compare func(a, b T) int
}

// New creates an empty container ordered by T's Compare method.
func New[T Comparable[T]]() *Container[T] {
	return NewFunc(func(a, b T) int { return a.Compare(b) })
}

// NewOrdered creates an empty container for builtin ordered types.
func NewOrdered[T cmp.Ordered]() *Container[T] {
	return NewFunc(cmp.Compare[T])
}

// NewFunc creates an empty container ordered by compare.
func NewFunc[T any](compare func(a, b T) int) *Container[T] {
	return &Container[T]{compare: compare}
}

// Add appends element to the end of the container.
func (c *Container[T]) Add(element T) {
	c.elements = append(c.elements, element)
}

// Len returns the number of elements added so far.
func (c *Container[T]) Len() int {
	return len(c.elements)
}

// FindMin returns the smallest element. When several elements compare
// equal to the minimum, the one added first is returned.
func (c *Container[T]) FindMin() (T, error) {
	if len(c.elements) == 0 {
		var zero T
		return zero, ErrEmpty
	}

	m := c.elements[0]
	for _, e := range c.elements[1:] {
		if c.compare(e, m) < 0 {
			m = e
		}
	}
	return m, nil
}
