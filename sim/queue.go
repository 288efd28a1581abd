// Implements the package stockpiles: worker input queues and storehouse stock.
// Packages are always pushed at the tail; the queue type decides which end Pop takes from.

package sim

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// QueueType selects the removal discipline of a PackageQueue.
type QueueType int

const (
	FIFO QueueType = iota
	LIFO
)

func (q QueueType) String() string {
	switch q {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	}
	return fmt.Sprintf("QueueType(%d)", int(q))
}

// ParseQueueType accepts "FIFO" or "LIFO".
func ParseQueueType(s string) (QueueType, error) {
	switch s {
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	}
	return 0, fmt.Errorf("unknown queue type %q; valid: FIFO, LIFO", s)
}

// PackageStockpile is an ordered, push-only view of stored packages.
type PackageStockpile interface {
	Push(p Package)
	Len() int
	Empty() bool
	// Items returns the packages in insertion order. The slice is a copy.
	Items() []Package
}

// PackageQueue is a stockpile that also removes packages according to its QueueType.
type PackageQueue interface {
	PackageStockpile
	Pop() Package
	QueueType() QueueType
}

// Queue is the slice-backed PackageQueue used by workers and storehouses.
type Queue struct {
	queueType QueueType
	packages  []Package
}

// NewQueue creates an empty queue with the given discipline.
func NewQueue(queueType QueueType) *Queue {
	return &Queue{queueType: queueType}
}

// Push appends a package at the tail.
func (q *Queue) Push(p Package) {
	q.packages = append(q.packages, p)
}

// Pop removes the head (FIFO) or the tail (LIFO).
// Panics with ErrEmptyQueue if the queue is empty: callers check Empty first.
func (q *Queue) Pop() Package {
	n := len(q.packages)
	if n == 0 {
		panic(fmt.Errorf("Queue.Pop (%s): %w", q.queueType, ErrEmptyQueue))
	}
	var p Package
	if q.queueType == LIFO {
		p = q.packages[n-1]
		q.packages = q.packages[:n-1]
	} else {
		p = q.packages[0]
		q.packages = q.packages[1:]
	}
	return p
}

// Len returns the number of stored packages.
func (q *Queue) Len() int {
	return len(q.packages)
}

func (q *Queue) Empty() bool {
	return len(q.packages) == 0
}

func (q *Queue) QueueType() QueueType {
	return q.queueType
}

func (q *Queue) Items() []Package {
	return slices.Clone(q.packages)
}

func (q *Queue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range q.packages {
		fmt.Fprintf(&sb, "#%d", p.ID())
		if i < len(q.packages)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
