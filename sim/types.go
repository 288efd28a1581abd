package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ElementID identifies a package or a node. Zero is reserved for "no identity".
type ElementID uint64

// Time is a simulation turn number. Simulations start at turn 1.
type Time int64

// TimeOffset is a duration measured in turns (delivery interval, processing time).
type TimeOffset int64

// ProbabilityGenerator returns a value in [0, 1).
type ProbabilityGenerator func() float64

var (
	ErrDuplicateIdentifier = errors.New("identifier already in use")
	ErrDuplicateNode       = errors.New("node already exists")
	ErrUnknownNode         = errors.New("unknown node")
	ErrInvalidLink         = errors.New("invalid link")
	ErrInvalidInterval     = errors.New("time offset must be positive")
	ErrMissingReceivers    = errors.New("sender has no receivers")
	ErrUnreachableSink     = errors.New("no storehouse reachable")
	ErrUnknownReceiver     = errors.New("preference table references unknown receiver")
	ErrEmptyQueue          = errors.New("pop from empty queue")
	ErrInconsistentFactory = errors.New("factory is inconsistent")
)

// NodeKind tags the three node variants.
type NodeKind int

const (
	KindRamp NodeKind = iota
	KindWorker
	KindStorehouse
)

var nodeKindNames = map[NodeKind]string{
	KindRamp:       "ramp",
	KindWorker:     "worker",
	KindStorehouse: "store",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// CanSend reports whether nodes of this kind own a sending buffer and a preference table.
func (k NodeKind) CanSend() bool {
	return k == KindRamp || k == KindWorker
}

// CanReceive reports whether nodes of this kind accept packages.
func (k NodeKind) CanReceive() bool {
	return k == KindWorker || k == KindStorehouse
}

// NodeRef is a stable handle to a node, resolved through the owning Factory.
// Preference tables store NodeRefs instead of pointers so that removing a node
// only needs to deregister the handle.
type NodeRef struct {
	Kind NodeKind
	ID   ElementID
}

func RampRef(id ElementID) NodeRef       { return NodeRef{Kind: KindRamp, ID: id} }
func WorkerRef(id ElementID) NodeRef     { return NodeRef{Kind: KindWorker, ID: id} }
func StorehouseRef(id ElementID) NodeRef { return NodeRef{Kind: KindStorehouse, ID: id} }

// String renders the reference as used in LINK records, e.g. "worker-2".
func (r NodeRef) String() string {
	return r.Kind.String() + "-" + strconv.FormatUint(uint64(r.ID), 10)
}

// Compare orders references by kind, then id.
func (r NodeRef) Compare(o NodeRef) int {
	switch {
	case r.Kind != o.Kind:
		return int(r.Kind) - int(o.Kind)
	case r.ID < o.ID:
		return -1
	case r.ID > o.ID:
		return 1
	}
	return 0
}

// ParseNodeRef parses "ramp-<id>", "worker-<id>" or "store-<id>".
func ParseNodeRef(s string) (NodeRef, error) {
	kindName, idText, ok := strings.Cut(s, "-")
	if !ok {
		return NodeRef{}, fmt.Errorf("node reference %q: missing '-'", s)
	}
	var kind NodeKind
	switch kindName {
	case "ramp":
		kind = KindRamp
	case "worker":
		kind = KindWorker
	case "store":
		kind = KindStorehouse
	default:
		return NodeRef{}, fmt.Errorf("node reference %q: unknown kind %q", s, kindName)
	}
	id, err := strconv.ParseUint(idText, 10, 64)
	if err != nil {
		return NodeRef{}, fmt.Errorf("node reference %q: %w", s, err)
	}
	return NodeRef{Kind: kind, ID: ElementID(id)}, nil
}
