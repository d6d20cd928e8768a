package domain

import "strconv"

// IDAllocator hands out monotonically increasing decimal identifiers.
// Identifiers are never recycled, even after the entity they named is deleted.
type IDAllocator struct {
	next uint64
}

// NewIDAllocator creates an allocator whose next identifier is next (minimum 1)
func NewIDAllocator(next uint64) *IDAllocator {
	if next < 1 {
		next = 1
	}
	return &IDAllocator{next: next}
}

// NextID returns a fresh identifier and advances the counter
func (a *IDAllocator) NextID() string {
	id := a.next
	a.next++
	return strconv.FormatUint(id, 10)
}

// Reserve atomically reserves n consecutive identifiers, in ascending order
func (a *IDAllocator) Reserve(n int) []string {
	if n <= 0 {
		return nil
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.FormatUint(a.next+uint64(i), 10)
	}
	a.next += uint64(n)
	return ids
}

// PeekID returns the identifier NextID will hand out, without consuming it
func (a *IDAllocator) PeekID() string {
	return strconv.FormatUint(a.next, 10)
}

// Peek returns the value the next identifier will carry
func (a *IDAllocator) Peek() uint64 {
	return a.next
}

// ParseID returns the numeric value of an allocator-issued identifier
func ParseID(id string) (uint64, bool) {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
