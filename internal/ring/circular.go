package ring

import (
	"errors"
	"fmt"
)

// MaxIndex is the ceiling on external indices. Indices are handed to
// callers and must stay exactly representable as a float64, so the limit
// is 2^53 rather than the int range.
const MaxIndex = 1 << 53

// Domain errors for circular list operations.
var (
	// ErrIndexOverflow indicates the external index space is exhausted. The
	// list itself is intact; the documented recovery is Reset, accepting
	// loss of history.
	ErrIndexOverflow = errors.New("ring: external index would exceed 2^53")

	// ErrIndexOutOfRange indicates an index outside [StartIndex, EndIndex].
	ErrIndexOutOfRange = errors.New("ring: index outside retained range")

	// ErrIterationEnd indicates an iterator moved past either end.
	ErrIterationEnd = errors.New("ring: cannot iterate past end of list")

	// ErrEmptySlot indicates pointer arithmetic on a slot never written.
	ErrEmptySlot = errors.New("ring: slot has never been written")
)

// CircularList is a fixed-capacity ring buffer addressed by monotonically
// increasing external indices. Not goroutine-safe.
type CircularList[T any] struct {
	capacity int
	size     int
	cycles   int
	nextPtr  int
	values   []T
}

var _ HistoryList[int] = (*CircularList[int])(nil)

// NewCircularList makes a list holding at most capacity values. Panics if
// capacity < 2.
func NewCircularList[T any](capacity int) *CircularList[T] {
	if capacity < 2 {
		panic(fmt.Sprintf("ring: capacity %d < 2", capacity))
	}
	return &CircularList[T]{
		capacity: capacity,
		values:   make([]T, capacity),
	}
}

// stored returns the count of Store calls over the list's lifetime, which
// is also the next external index to assign.
func (c *CircularList[T]) stored() int {
	return c.cycles*c.capacity + c.nextPtr
}

// Store appends value, evicting the oldest entry once the list is full,
// and returns the external index assigned to value.
func (c *CircularList[T]) Store(value T) (int, error) {
	index := c.stored()
	if index >= MaxIndex {
		return 0, ErrIndexOverflow
	}
	c.values[c.nextPtr] = value
	c.nextPtr++
	if c.size < c.capacity {
		c.size++
	}
	if c.nextPtr >= c.capacity {
		c.nextPtr = 0
		c.cycles++
	}
	return index, nil
}

// Reset discards all content and restarts external indices from zero. The
// capacity is unchanged; retained values are released for collection.
func (c *CircularList[T]) Reset() {
	var zero T
	for i := range c.values {
		c.values[i] = zero
	}
	c.size = 0
	c.cycles = 0
	c.nextPtr = 0
}

// Size returns the number of retained values.
func (c *CircularList[T]) Size() int { return c.size }

// Capacity returns the fixed capacity set at construction.
func (c *CircularList[T]) Capacity() int { return c.capacity }

// StartIndex returns the external index of the oldest retained value, 0
// when the list is empty.
func (c *CircularList[T]) StartIndex() int {
	return c.stored() - c.size
}

// EndIndex returns the external index of the newest value, -1 when empty.
func (c *CircularList[T]) EndIndex() int {
	return c.stored() - 1
}

// Value returns the value stored at the given external index. Indices
// outside [StartIndex, EndIndex] read whatever occupies the wrapped slot;
// use an iterator or IndexInRange for checked access.
func (c *CircularList[T]) Value(index int) T {
	return c.values[c.IndexToPointer(index)]
}

// IndexInRange reports whether index addresses a retained value.
func (c *CircularList[T]) IndexInRange(index int) bool {
	return c.size > 0 && index >= c.StartIndex() && index <= c.EndIndex()
}

// IndexToPointer maps an external index to its physical slot.
func (c *CircularList[T]) IndexToPointer(index int) int {
	return index % c.capacity
}

// PointerToIndex maps a physical slot back to the external index of the
// value it currently holds. Inverse of IndexToPointer for every retained
// index; slots never written are an error.
func (c *CircularList[T]) PointerToIndex(pointer int) (int, error) {
	if pointer < 0 || pointer >= c.capacity {
		return 0, fmt.Errorf("%w: pointer %d", ErrIndexOutOfRange, pointer)
	}
	var index int
	if pointer < c.nextPtr {
		index = c.cycles*c.capacity + pointer
	} else {
		index = (c.cycles-1)*c.capacity + pointer
	}
	if index < 0 || index < c.StartIndex() {
		return 0, fmt.Errorf("%w: pointer %d", ErrEmptySlot, pointer)
	}
	return index, nil
}

// Iterator returns a cursor positioned at the oldest retained value.
func (c *CircularList[T]) Iterator() HistoryIterator[T] {
	return &circularIterator[T]{list: c, index: c.StartIndex(), first: true}
}

// IteratorAt returns a cursor positioned at index, which must address a
// retained value.
func (c *CircularList[T]) IteratorAt(index int) (HistoryIterator[T], error) {
	if !c.IndexInRange(index) {
		return nil, fmt.Errorf("%w: index %d not in [%d, %d]", ErrIndexOutOfRange, index, c.StartIndex(), c.EndIndex())
	}
	return &circularIterator[T]{list: c, index: index, first: true}, nil
}

// circularIterator walks a CircularList in either direction. The first
// call to NextValue or PreviousValue yields the starting element without
// moving the cursor; see HistoryIterator.
type circularIterator[T any] struct {
	list  *CircularList[T]
	index int
	first bool
}

func (it *circularIterator[T]) Index() int { return it.index }

func (it *circularIterator[T]) HasNext() bool {
	if it.first {
		return it.list.IndexInRange(it.index)
	}
	return it.index < it.list.EndIndex()
}

func (it *circularIterator[T]) HasPrevious() bool {
	if it.first {
		return it.list.IndexInRange(it.index)
	}
	return it.index > it.list.StartIndex()
}

func (it *circularIterator[T]) NextValue() (T, error) {
	var zero T
	if it.first {
		if !it.list.IndexInRange(it.index) {
			return zero, ErrIterationEnd
		}
		it.first = false
		return it.list.Value(it.index), nil
	}
	if it.index >= it.list.EndIndex() {
		return zero, ErrIterationEnd
	}
	it.index++
	return it.list.Value(it.index), nil
}

func (it *circularIterator[T]) PreviousValue() (T, error) {
	var zero T
	if it.first {
		if !it.list.IndexInRange(it.index) {
			return zero, ErrIterationEnd
		}
		it.first = false
		return it.list.Value(it.index), nil
	}
	if it.index <= it.list.StartIndex() {
		return zero, ErrIterationEnd
	}
	it.index--
	return it.list.Value(it.index), nil
}
