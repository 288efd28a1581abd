package sim

import (
	"cmp"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// ViolationKind names the structural rule a factory broke.
type ViolationKind int

const (
	// ViolationMissingReceivers: a ramp or worker has an empty preference table.
	ViolationMissingReceivers ViolationKind = iota
	// ViolationUnreachableSink: no storehouse can be reached from a ramp.
	ViolationUnreachableSink
	// ViolationUnknownReceiver: a preference table names a node the factory does not hold.
	ViolationUnknownReceiver
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationMissingReceivers:
		return "missing-receivers"
	case ViolationUnreachableSink:
		return "unreachable-sink"
	case ViolationUnknownReceiver:
		return "unknown-receiver"
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation is one failed rule. Receiver is set only for ViolationUnknownReceiver.
type Violation struct {
	Kind     ViolationKind
	Node     NodeRef
	Receiver NodeRef
}

func (v Violation) Error() string {
	if v.Kind == ViolationUnknownReceiver {
		return fmt.Sprintf("%s: %v (%s)", v.Node, v.Unwrap(), v.Receiver)
	}
	return fmt.Sprintf("%s: %v", v.Node, v.Unwrap())
}

// Unwrap maps the violation onto its sentinel error.
func (v Violation) Unwrap() error {
	switch v.Kind {
	case ViolationMissingReceivers:
		return ErrMissingReceivers
	case ViolationUnreachableSink:
		return ErrUnreachableSink
	default:
		return ErrUnknownReceiver
	}
}

// Verdict is the result of a consistency check.
type Verdict struct {
	Violations []Violation
}

// Consistent reports whether no rule was broken.
func (v Verdict) Consistent() bool {
	return len(v.Violations) == 0
}

// Err joins every violation, or returns nil for a consistent factory.
func (v Verdict) Err() error {
	if v.Consistent() {
		return nil
	}
	errs := make([]error, len(v.Violations))
	for i, violation := range v.Violations {
		errs[i] = violation
	}
	return errors.Join(errs...)
}

// IsConsistent reports whether CheckConsistency finds no violations.
func (f *Factory) IsConsistent() bool {
	return f.CheckConsistency().Consistent()
}

// CheckConsistency validates the link structure:
// every ramp and worker has at least one receiver, and every ramp reaches a
// storehouse with workers as pass-through nodes. Links from a worker to
// itself never count as a route.
func (f *Factory) CheckConsistency() Verdict {
	lg := f.linkGraph()
	var verdict Verdict
	for _, ref := range lg.senders {
		sender, _ := f.Sender(ref)
		if sender.receiverPreferences().Empty() {
			verdict.Violations = append(verdict.Violations, Violation{Kind: ViolationMissingReceivers, Node: ref})
		}
	}
	verdict.Violations = append(verdict.Violations, lg.unknown...)

	for _, r := range f.ramps.nodes {
		if r.receiverPreferences().Empty() {
			continue
		}
		if !lg.reachesStorehouse(lg.ids[r.Ref()]) {
			verdict.Violations = append(verdict.Violations, Violation{Kind: ViolationUnreachableSink, Node: r.Ref()})
		}
	}
	return verdict
}

type nodeColor int

const (
	unvisited nodeColor = iota
	inProgress
	done
)

// linkGraph is the directed sender→receiver graph of a factory.
type linkGraph struct {
	g        *simple.DirectedGraph
	ids      map[NodeRef]int64
	refs     map[int64]NodeRef
	senders  []NodeRef
	unknown  []Violation
	verified map[int64]bool // nodes already proven to reach a storehouse
}

func (f *Factory) linkGraph() *linkGraph {
	lg := &linkGraph{
		g:        simple.NewDirectedGraph(),
		ids:      make(map[NodeRef]int64),
		refs:     make(map[int64]NodeRef),
		verified: make(map[int64]bool),
	}
	add := func(ref NodeRef) {
		id := int64(len(lg.ids))
		lg.ids[ref] = id
		lg.refs[id] = ref
		lg.g.AddNode(simple.Node(id))
	}
	for _, r := range f.ramps.nodes {
		add(r.Ref())
		lg.senders = append(lg.senders, r.Ref())
	}
	for _, w := range f.workers.nodes {
		add(w.Ref())
		lg.senders = append(lg.senders, w.Ref())
	}
	for _, s := range f.storehouses.nodes {
		add(s.Ref())
	}

	for _, src := range lg.senders {
		sender, _ := f.Sender(src)
		for _, dest := range sender.Receivers() {
			to, ok := lg.ids[dest]
			if !ok {
				lg.unknown = append(lg.unknown, Violation{Kind: ViolationUnknownReceiver, Node: src, Receiver: dest})
				continue
			}
			if dest == src {
				continue
			}
			lg.g.SetEdge(lg.g.NewEdge(simple.Node(lg.ids[src]), simple.Node(to)))
		}
	}
	return lg
}

// reachesStorehouse walks depth-first from start with an explicit stack.
// In-progress nodes are on the current path, so meeting one again means a
// cycle and is skipped. Positive answers are cached across walks: every node
// on the stack when a storehouse is found reaches it too.
func (lg *linkGraph) reachesStorehouse(start int64) bool {
	type frame struct {
		id   int64
		next []graph.Node
		i    int
	}
	colors := map[int64]nodeColor{start: inProgress}
	stack := []frame{{id: start, next: lg.successors(start)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i == len(top.next) {
			colors[top.id] = done
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.next[top.i].ID()
		top.i++

		if lg.refs[n].Kind == KindStorehouse || lg.verified[n] {
			for _, fr := range stack {
				lg.verified[fr.id] = true
			}
			return true
		}
		if colors[n] != unvisited {
			continue
		}
		colors[n] = inProgress
		stack = append(stack, frame{id: n, next: lg.successors(n)})
	}
	return false
}

func (lg *linkGraph) successors(id int64) []graph.Node {
	nodes := graph.NodesOf(lg.g.From(id))
	slices.SortFunc(nodes, func(a, b graph.Node) int { return cmp.Compare(a.ID(), b.ID()) })
	return nodes
}
