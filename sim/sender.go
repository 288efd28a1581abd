package sim

import "fmt"

// PackageReceiver is the receive capability shared by Worker and Storehouse.
type PackageReceiver interface {
	ID() ElementID
	Ref() NodeRef
	ReceivePackage(p Package)
	// Items returns the stored packages in insertion order.
	Items() []Package
}

// Sender is the send capability shared by Ramp and Worker.
// Receivers and Preferences are read-only copies; the table itself only
// changes through Factory.Link, Factory.Unlink and node removal.
type Sender interface {
	ID() ElementID
	Ref() NodeRef
	Receivers() []NodeRef
	Preferences() []Preference
	SendingBuffer() (Package, bool)
	SendPackage(dir ReceiverDirectory) (Dispatch, bool, error)

	receiverPreferences() *ReceiverPreferences
}

// ReceiverDirectory resolves NodeRefs stored in preference tables.
type ReceiverDirectory interface {
	Receiver(ref NodeRef) (PackageReceiver, bool)
}

// Dispatch describes one package handed from a sender to a receiver.
type Dispatch struct {
	Sender    NodeRef
	Receiver  NodeRef
	PackageID ElementID
}

// PackageSender holds the single outbound slot and the preference table.
// Ramp and Worker embed it.
type PackageSender struct {
	owner  NodeRef
	prefs  *ReceiverPreferences
	buffer *Package
}

func newPackageSender(owner NodeRef, pg ProbabilityGenerator) PackageSender {
	return PackageSender{owner: owner, prefs: NewReceiverPreferences(pg)}
}

// Receivers returns the linked receivers in selection order.
func (s *PackageSender) Receivers() []NodeRef {
	return s.prefs.Receivers()
}

// Preferences returns a copy of the weighted receiver table.
func (s *PackageSender) Preferences() []Preference {
	return s.prefs.Preferences()
}

func (s *PackageSender) receiverPreferences() *ReceiverPreferences {
	return s.prefs
}

// SendingBuffer returns the package waiting for dispatch, if any.
func (s *PackageSender) SendingBuffer() (Package, bool) {
	if s.buffer == nil {
		return Package{}, false
	}
	return *s.buffer, true
}

// pushPackage fills the sending buffer. Panics if it is already occupied.
func (s *PackageSender) pushPackage(p Package) {
	if s.buffer != nil {
		panic(fmt.Sprintf("%s: sending buffer already holds package #%d", s.owner, s.buffer.ID()))
	}
	s.buffer = &p
}

// SendPackage hands the buffered package to a receiver chosen from the
// preference table. Returns false when the buffer was empty.
// With no receivers the package stays buffered and ErrMissingReceivers is returned.
func (s *PackageSender) SendPackage(dir ReceiverDirectory) (Dispatch, bool, error) {
	if s.buffer == nil {
		return Dispatch{}, false, nil
	}
	ref, ok := s.prefs.ChooseReceiver()
	if !ok {
		return Dispatch{}, false, fmt.Errorf("%s cannot dispatch package #%d: %w", s.owner, s.buffer.ID(), ErrMissingReceivers)
	}
	receiver, ok := dir.Receiver(ref)
	if !ok {
		return Dispatch{}, false, fmt.Errorf("%s cannot dispatch package #%d to %s: %w", s.owner, s.buffer.ID(), ref, ErrUnknownReceiver)
	}
	p := s.buffer.Move()
	s.buffer = nil
	receiver.ReceivePackage(p)
	return Dispatch{Sender: s.owner, Receiver: ref, PackageID: p.ID()}, true, nil
}

// drainSendingBuffer releases the buffered package's identity, if any.
func (s *PackageSender) drainSendingBuffer(pool *IDPool) {
	if s.buffer != nil {
		s.buffer.Destroy(pool)
		s.buffer = nil
	}
}
