package ring

// HistoryIterator is a cursor over a HistoryList. A fresh iterator points
// at its starting element without having consumed it: the first call to
// NextValue or PreviousValue returns that element without moving, so the
// same cursor can begin iterating in either direction.
type HistoryIterator[T any] interface {
	// Index returns the external index at the cursor.
	Index() int
	// HasNext reports whether NextValue will succeed.
	HasNext() bool
	// HasPrevious reports whether PreviousValue will succeed.
	HasPrevious() bool
	// NextValue advances toward newer entries and returns the value there.
	NextValue() (T, error)
	// PreviousValue advances toward older entries and returns the value
	// there.
	PreviousValue() (T, error)
}

// HistoryList is a bounded sequence of values addressed by ever-increasing
// external indices; storing past capacity evicts the oldest value.
type HistoryList[T any] interface {
	// Store appends value and returns the external index assigned to it.
	Store(value T) (int, error)
	// StartIndex returns the index of the oldest retained value.
	StartIndex() int
	// EndIndex returns the index of the newest value, -1 when empty.
	EndIndex() int
	// Size returns the number of retained values.
	Size() int
	// Value returns the value at the given external index. Bounds are the
	// caller's responsibility; use an iterator for checked access.
	Value(index int) T
	// Iterator returns a cursor positioned at the oldest retained value.
	Iterator() HistoryIterator[T]
	// IteratorAt returns a cursor positioned at index, which must lie in
	// [StartIndex, EndIndex].
	IteratorAt(index int) (HistoryIterator[T], error)
	// Reset discards all content and restarts indices from zero.
	Reset()
}
