// Package ids issues the process-local identifiers used by content nodes
// and annotations within one document session.
package ids

import (
	"fmt"
	"math"
	"strconv"
)

// ID identifies a content node or an annotation inside one document.
// IDs are never persisted outside the package; the serialized XML uses
// its own reference scheme.
type ID uint32

// Root is reserved for the document body and is never issued by an Allocator.
const Root ID = 0

// DefaultBase is the first identifier issued when no base is configured.
const DefaultBase ID = 1

// String returns the decimal form of the identifier.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Allocator issues strictly increasing identifiers.
//
// An Allocator belongs to a single document session and is not safe for
// concurrent use.
type Allocator struct {
	next      ID
	exhausted bool
}

// NewAllocator returns an allocator whose first identifier is base.
// A zero base selects DefaultBase.
func NewAllocator(base ID) *Allocator {
	if base == Root {
		base = DefaultBase
	}
	return &Allocator{next: base}
}

// Next returns a fresh identifier. It panics once the 32-bit space is
// exhausted; a document never legitimately approaches that many nodes.
func (a *Allocator) Next() ID {
	if a.exhausted {
		panic(fmt.Sprintf("ids: identifier space exhausted after %d", uint32(math.MaxUint32)))
	}
	id := a.next
	if id == math.MaxUint32 {
		a.exhausted = true
	} else {
		a.next++
	}
	return id
}

// Peek returns the identifier the next call to Next will issue.
func (a *Allocator) Peek() ID {
	return a.next
}

// Observe records a caller-assigned identifier so that Next never issues it.
func (a *Allocator) Observe(id ID) {
	if a.exhausted || id < a.next {
		return
	}
	if id == math.MaxUint32 {
		a.exhausted = true
		return
	}
	a.next = id + 1
}
