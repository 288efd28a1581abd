package sim

import "fmt"

// === Ramp ===

// Ramp is a pure source. Its sending buffer starts filled and is refilled on
// every turn that is not a delivery turn.
type Ramp struct {
	PackageSender
	id       ElementID
	interval TimeOffset
	pool     *IDPool
}

// NewRamp creates a ramp delivering every interval turns, with one package
// already waiting in its sending buffer.
func NewRamp(id ElementID, interval TimeOffset, pool *IDPool, pg ProbabilityGenerator) (*Ramp, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("ramp %d: delivery interval %d: %w", id, interval, ErrInvalidInterval)
	}
	r := &Ramp{
		PackageSender: newPackageSender(RampRef(id), pg),
		id:            id,
		interval:      interval,
		pool:          pool,
	}
	r.pushPackage(NewPackage(pool))
	return r, nil
}

func (r *Ramp) ID() ElementID                { return r.id }
func (r *Ramp) Ref() NodeRef                 { return RampRef(r.id) }
func (r *Ramp) DeliveryInterval() TimeOffset { return r.interval }

// DeliverGoods dispatches the buffer on turns divisible by the delivery
// interval; on any other turn it refills an empty buffer.
func (r *Ramp) DeliverGoods(t Time, dir ReceiverDirectory) (Dispatch, bool, error) {
	if int64(t)%int64(r.interval) == 0 {
		return r.SendPackage(dir)
	}
	if _, full := r.SendingBuffer(); !full {
		r.pushPackage(NewPackage(r.pool))
	}
	return Dispatch{}, false, nil
}

func (r *Ramp) release(pool *IDPool) {
	r.drainSendingBuffer(pool)
}

// === Worker ===

// Worker pulls packages from its input queue into a single processing slot
// and hands finished packages to its sending buffer.
type Worker struct {
	PackageSender
	id         ElementID
	duration   TimeOffset
	queue      PackageQueue
	processing *Package
	startTime  Time
}

// NewWorker creates a worker. A nil queue defaults to FIFO.
func NewWorker(id ElementID, duration TimeOffset, queue PackageQueue, pg ProbabilityGenerator) (*Worker, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("worker %d: processing duration %d: %w", id, duration, ErrInvalidInterval)
	}
	if queue == nil {
		queue = NewQueue(FIFO)
	}
	return &Worker{
		PackageSender: newPackageSender(WorkerRef(id), pg),
		id:            id,
		duration:      duration,
		queue:         queue,
	}, nil
}

func (w *Worker) ID() ElementID                  { return w.id }
func (w *Worker) Ref() NodeRef                   { return WorkerRef(w.id) }
func (w *Worker) ProcessingDuration() TimeOffset { return w.duration }
func (w *Worker) Queue() PackageQueue            { return w.queue }
func (w *Worker) ProcessingStartTime() Time      { return w.startTime }

// ReceivePackage appends to the input queue. The queue is unbounded.
func (w *Worker) ReceivePackage(p Package) {
	w.queue.Push(p)
}

// Items returns the input queue contents in insertion order.
func (w *Worker) Items() []Package {
	return w.queue.Items()
}

// ProcessingBuffer returns the package being processed, if any.
func (w *Worker) ProcessingBuffer() (Package, bool) {
	if w.processing == nil {
		return Package{}, false
	}
	return *w.processing, true
}

// DoWork advances processing by one turn.
// An idle worker pulls the next queued package and records t as its start.
// On turns divisible by the processing duration the package moves to the
// sending buffer; if that buffer is still occupied the package keeps its slot.
func (w *Worker) DoWork(t Time) {
	if w.processing == nil {
		if w.queue.Empty() {
			return
		}
		p := w.queue.Pop()
		w.processing = &p
		w.startTime = t
	}
	if int64(t)%int64(w.duration) != 0 {
		return
	}
	if _, full := w.SendingBuffer(); full {
		return
	}
	w.pushPackage(w.processing.Move())
	w.processing = nil
}

func (w *Worker) release(pool *IDPool) {
	w.drainSendingBuffer(pool)
	if w.processing != nil {
		w.processing.Destroy(pool)
		w.processing = nil
	}
	for !w.queue.Empty() {
		p := w.queue.Pop()
		p.Destroy(pool)
	}
}

// === Storehouse ===

// Storehouse is a pure sink.
type Storehouse struct {
	id        ElementID
	stockpile PackageStockpile
}

// NewStorehouse creates a storehouse. A nil stockpile defaults to a LIFO queue.
func NewStorehouse(id ElementID, stockpile PackageStockpile) *Storehouse {
	if stockpile == nil {
		stockpile = NewQueue(LIFO)
	}
	return &Storehouse{id: id, stockpile: stockpile}
}

func (s *Storehouse) ID() ElementID               { return s.id }
func (s *Storehouse) Ref() NodeRef                { return StorehouseRef(s.id) }
func (s *Storehouse) Stockpile() PackageStockpile { return s.stockpile }

// ReceivePackage appends to the stockpile.
func (s *Storehouse) ReceivePackage(p Package) {
	s.stockpile.Push(p)
}

// Items returns the stock in insertion order.
func (s *Storehouse) Items() []Package {
	return s.stockpile.Items()
}

func (s *Storehouse) release(pool *IDPool) {
	for _, p := range s.stockpile.Items() {
		p.Destroy(pool)
	}
}
