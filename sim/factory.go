package sim

import (
	"fmt"

	"github.com/factory-sim/factory-sim/sim/trace"
	"github.com/sirupsen/logrus"
)

// Factory owns the ramps, workers and storehouses of one network and drives
// the three-phase turn: deliveries, package passing, work.
//
// Invariant: every NodeRef in every preference table resolves to a node in
// this factory. Link only accepts existing endpoints and node removal purges
// the node from every table in the same call.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine, and
// nodes must not be added or removed between the phases of a turn.
type Factory struct {
	ramps       NodeCollection[*Ramp]
	workers     NodeCollection[*Worker]
	storehouses NodeCollection[*Storehouse]

	pool    *IDPool
	clock   Time
	metrics *Metrics
	trace   *trace.SimulationTrace
}

// NewFactory creates an empty factory whose packages draw identifiers from pool.
// A nil pool gets a fresh one.
func NewFactory(pool *IDPool) *Factory {
	if pool == nil {
		pool = NewIDPool()
	}
	return &Factory{pool: pool, metrics: NewMetrics()}
}

// Pool returns the identifier pool shared by every package in the factory.
func (f *Factory) Pool() *IDPool { return f.pool }

// Clock returns the turn most recently passed to DoDeliveries or DoWork.
func (f *Factory) Clock() Time { return f.clock }

// Metrics returns the running counters.
func (f *Factory) Metrics() *Metrics { return f.metrics }

// SetTrace attaches a dispatch trace. Nil detaches it.
func (f *Factory) SetTrace(st *trace.SimulationTrace) { f.trace = st }

// Trace returns the attached dispatch trace, or nil.
func (f *Factory) Trace() *trace.SimulationTrace { return f.trace }

// === Ramps ===

// AddRamp registers r. Returns ErrDuplicateNode if its id is taken; the
// rejected ramp's pending package is released in that case.
func (f *Factory) AddRamp(r *Ramp) error {
	if err := f.ramps.Add(r); err != nil {
		r.release(f.pool)
		return err
	}
	if _, full := r.SendingBuffer(); full {
		f.metrics.PackagesCreated++
	}
	return nil
}

// RemoveRamp removes the ramp and releases the package it was holding.
func (f *Factory) RemoveRamp(id ElementID) bool {
	r, ok := f.ramps.RemoveByID(id)
	if !ok {
		return false
	}
	r.release(f.pool)
	logrus.Debugf("removed %s", r.Ref())
	return true
}

func (f *Factory) FindRampByID(id ElementID) (*Ramp, bool) { return f.ramps.FindByID(id) }

// Ramps returns the ramps in insertion order.
func (f *Factory) Ramps() []*Ramp { return f.ramps.Items() }

// === Workers ===

// AddWorker registers w. Returns ErrDuplicateNode if its id is taken.
func (f *Factory) AddWorker(w *Worker) error {
	return f.workers.Add(w)
}

// RemoveWorker removes the worker, purges it from every preference table and
// releases the packages it was holding.
func (f *Factory) RemoveWorker(id ElementID) bool {
	w, ok := f.workers.RemoveByID(id)
	if !ok {
		return false
	}
	f.purgeReceiver(w.Ref())
	w.release(f.pool)
	logrus.Debugf("removed %s", w.Ref())
	return true
}

func (f *Factory) FindWorkerByID(id ElementID) (*Worker, bool) { return f.workers.FindByID(id) }

// Workers returns the workers in insertion order.
func (f *Factory) Workers() []*Worker { return f.workers.Items() }

// === Storehouses ===

// AddStorehouse registers s. Returns ErrDuplicateNode if its id is taken.
func (f *Factory) AddStorehouse(s *Storehouse) error {
	return f.storehouses.Add(s)
}

// RemoveStorehouse removes the storehouse, purges it from every preference
// table and releases its stock.
func (f *Factory) RemoveStorehouse(id ElementID) bool {
	s, ok := f.storehouses.RemoveByID(id)
	if !ok {
		return false
	}
	f.purgeReceiver(s.Ref())
	s.release(f.pool)
	logrus.Debugf("removed %s", s.Ref())
	return true
}

func (f *Factory) FindStorehouseByID(id ElementID) (*Storehouse, bool) {
	return f.storehouses.FindByID(id)
}

// Storehouses returns the storehouses in insertion order.
func (f *Factory) Storehouses() []*Storehouse { return f.storehouses.Items() }

// === Links ===

// Sender resolves a ramp or worker reference.
func (f *Factory) Sender(ref NodeRef) (Sender, bool) {
	switch ref.Kind {
	case KindRamp:
		if r, ok := f.ramps.FindByID(ref.ID); ok {
			return r, true
		}
	case KindWorker:
		if w, ok := f.workers.FindByID(ref.ID); ok {
			return w, true
		}
	}
	return nil, false
}

// Receiver resolves a worker or storehouse reference. Implements ReceiverDirectory.
func (f *Factory) Receiver(ref NodeRef) (PackageReceiver, bool) {
	switch ref.Kind {
	case KindWorker:
		if w, ok := f.workers.FindByID(ref.ID); ok {
			return w, true
		}
	case KindStorehouse:
		if s, ok := f.storehouses.FindByID(ref.ID); ok {
			return s, true
		}
	}
	return nil, false
}

// Link adds dest to src's preference table.
func (f *Factory) Link(src, dest NodeRef) error {
	sender, err := f.linkEndpoints(src, dest)
	if err != nil {
		return err
	}
	sender.receiverPreferences().AddReceiver(dest)
	return nil
}

// Unlink removes dest from src's preference table.
func (f *Factory) Unlink(src, dest NodeRef) error {
	sender, err := f.linkEndpoints(src, dest)
	if err != nil {
		return err
	}
	if !sender.receiverPreferences().RemoveReceiver(dest) {
		return fmt.Errorf("unlink %s -> %s: %w", src, dest, ErrInvalidLink)
	}
	return nil
}

func (f *Factory) linkEndpoints(src, dest NodeRef) (Sender, error) {
	if !src.Kind.CanSend() || !dest.Kind.CanReceive() {
		return nil, fmt.Errorf("link %s -> %s: %w", src, dest, ErrInvalidLink)
	}
	sender, ok := f.Sender(src)
	if !ok {
		return nil, fmt.Errorf("link source %s: %w", src, ErrUnknownNode)
	}
	if _, ok := f.Receiver(dest); !ok {
		return nil, fmt.Errorf("link destination %s: %w", dest, ErrUnknownNode)
	}
	return sender, nil
}

func (f *Factory) purgeReceiver(ref NodeRef) {
	for _, r := range f.ramps.nodes {
		r.receiverPreferences().RemoveReceiver(ref)
	}
	for _, w := range f.workers.nodes {
		w.receiverPreferences().RemoveReceiver(ref)
	}
}

// === Turn phases ===

// DoDeliveries runs the delivery phase for every ramp.
func (f *Factory) DoDeliveries(t Time) error {
	f.clock = t
	for _, r := range f.ramps.nodes {
		_, wasFull := r.SendingBuffer()
		d, sent, err := r.DeliverGoods(t, f)
		if err != nil {
			return fmt.Errorf("turn %d deliveries: %w", t, err)
		}
		if sent {
			f.recordDispatch(d)
		} else if _, full := r.SendingBuffer(); full && !wasFull {
			f.metrics.PackagesCreated++
		}
	}
	return nil
}

// DoPackagePassing sends every buffered package, ramps first, then workers.
func (f *Factory) DoPackagePassing() error {
	for _, r := range f.ramps.nodes {
		if err := f.send(r); err != nil {
			return err
		}
	}
	for _, w := range f.workers.nodes {
		if err := f.send(w); err != nil {
			return err
		}
	}
	return nil
}

// DoWork advances every worker by one turn.
func (f *Factory) DoWork(t Time) {
	f.clock = t
	for _, w := range f.workers.nodes {
		f.metrics.observeQueue(w)
		w.DoWork(t)
	}
}

// Turn runs the three phases in order for turn t.
func (f *Factory) Turn(t Time) error {
	if err := f.DoDeliveries(t); err != nil {
		return err
	}
	if err := f.DoPackagePassing(); err != nil {
		return err
	}
	f.DoWork(t)
	f.metrics.TurnsSimulated++
	return nil
}

func (f *Factory) send(s Sender) error {
	d, sent, err := s.SendPackage(f)
	if err != nil {
		return fmt.Errorf("turn %d passing: %w", f.clock, err)
	}
	if sent {
		f.recordDispatch(d)
	}
	return nil
}

func (f *Factory) recordDispatch(d Dispatch) {
	f.metrics.recordDispatch(d)
	if f.trace != nil {
		f.trace.RecordDispatch(trace.DispatchRecord{
			Turn:      int64(f.clock),
			PackageID: uint64(d.PackageID),
			Sender:    d.Sender.String(),
			Receiver:  d.Receiver.String(),
		})
	}
}
