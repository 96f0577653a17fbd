package barbershop

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ServiceFunc performs one customer's service. It receives the shop's
// service context, which is cancelled only when Stop exceeds its timeout.
type ServiceFunc[ID comparable] func(ctx context.Context, id ID) error

// Outcome is the result of one arrival.
type Outcome int

const (
	// Rejected means the customer never got served: the waiting area was
	// full, or the shop was closed.
	Rejected Outcome = iota
	// Served means the barber finished this customer's service.
	Served
	// Abandoned means the caller's context ended while the customer was
	// still seated. The barber still serves the seat; nobody is waiting.
	Abandoned
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Served:
		return "served"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// State is the service loop lifecycle.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config holds shop construction parameters.
type Config[ID comparable] struct {
	// Seats is the waiting-area capacity. Must be positive.
	Seats int

	// Service is run by the barber for every seated customer. Defaults to a
	// no-op.
	Service ServiceFunc[ID]

	// ShutdownTimeout bounds how long Stop waits for seated customers to be
	// served before cancelling the service context. Defaults to 30 s.
	ShutdownTimeout time.Duration

	// Logger is used for progress output. If nil, log.Default() is used.
	Logger *log.Logger
}

func (c *Config[ID]) withDefaults() Config[ID] {
	out := *c
	if out.Service == nil {
		out.Service = func(context.Context, ID) error { return nil }
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = 30 * time.Second
	}
	if out.Logger == nil {
		out.Logger = log.Default()
	}
	return out
}

func (c *Config[ID]) validate() error {
	if c.Seats <= 0 {
		return &ConfigError{Field: "Seats", Message: fmt.Sprintf("must be positive, got %d", c.Seats)}
	}
	return nil
}

// Metrics is a snapshot of shop counters.
type Metrics struct {
	Arrived     int64 // every Arrive call
	Seated      int64 // arrivals that got a seat
	Rejected    int64 // arrivals turned away (full or closed)
	Served      int64 // services that returned nil
	Failed      int64 // seated customers whose service errored or never ran
	Abandoned   int64 // callers that stopped waiting after being seated
	PeakWaiting int   // highest waiting-area occupancy observed
}

// Shop is a single-barber shop.
type Shop[ID comparable] struct {
	cfg   Config[ID]
	seats *WaitingArea[*customer[ID]]
	avail *availability

	// gate is held for reading while an arrival seats itself and releases
	// the availability count, and for writing while Stop closes the shop.
	// No customer can be seated once closed is set.
	gate   sync.RWMutex
	closed bool

	state    atomic.Int32
	stop     chan struct{} // closed by Stop; consulted at every idle wait
	loopDone chan struct{} // closed when the service loop returns
	once     sync.Once

	serviceCtx    context.Context
	cancelService context.CancelFunc

	arrived   atomic.Int64
	seated    atomic.Int64
	rejected  atomic.Int64
	served    atomic.Int64
	failed    atomic.Int64
	abandoned atomic.Int64
}

// New creates a shop. The service loop does not run until Start; customers
// may already be seated before that.
func New[ID comparable](cfg Config[ID]) (*Shop[ID], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	serviceCtx, cancel := context.WithCancel(context.Background())
	return &Shop[ID]{
		cfg:           cfg,
		seats:         NewWaitingArea[*customer[ID]](cfg.Seats),
		avail:         newAvailability(cfg.Seats),
		stop:          make(chan struct{}),
		loopDone:      make(chan struct{}),
		serviceCtx:    serviceCtx,
		cancelService: cancel,
	}, nil
}

// Start launches the service loop. Only the first call has an effect; later
// calls return ErrAlreadyStarted, or ErrShopClosed once Stop has run.
func (s *Shop[ID]) Start() error {
	if !s.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		if s.State() == StateStopped {
			return ErrShopClosed
		}
		return ErrAlreadyStarted
	}
	s.cfg.Logger.Printf("[shop] open with %d seats", s.cfg.Seats)
	go s.run()
	return nil
}

// Arrive seats customer id and blocks until the barber has served it. A full
// waiting area returns Rejected immediately. Service errors are only visible
// through ArriveContext.
func (s *Shop[ID]) Arrive(id ID) Outcome {
	outcome, _ := s.ArriveContext(context.Background(), id)
	return outcome
}

// ArriveContext is Arrive with a bound on the completion wait. If ctx ends
// after the customer was seated it returns Abandoned; the seat is not given
// back and the barber still serves it.
//
// The returned error wraps ErrShopClosed when the shop no longer accepts
// customers, ctx.Err() on Abandoned, and the service error otherwise.
func (s *Shop[ID]) ArriveContext(ctx context.Context, id ID) (Outcome, error) {
	s.arrived.Add(1)

	c := newCustomer(id)
	ok, err := s.seat(c)
	switch {
	case err != nil:
		s.rejected.Add(1)
		return Rejected, fmt.Errorf("customer %v: %w", id, err)
	case !ok:
		s.rejected.Add(1)
		s.cfg.Logger.Printf("[customer %v] no free seat, leaving", id)
		return Rejected, nil
	}
	s.seated.Add(1)
	s.cfg.Logger.Printf("[customer %v] seated (waiting %d/%d)", id, s.seats.Len(), s.seats.Cap())

	select {
	case <-c.Done():
	case <-ctx.Done():
		s.abandoned.Add(1)
		s.cfg.Logger.Printf("[customer %v] stopped waiting: %v", id, ctx.Err())
		return Abandoned, fmt.Errorf("customer %v: %w", id, ctx.Err())
	}

	if c.err != nil {
		return c.outcome, fmt.Errorf("customer %v: %w", id, c.err)
	}
	s.cfg.Logger.Printf("[customer %v] leaving served", id)
	return c.outcome, nil
}

// seat takes a free seat for c and, only on success, releases one unit of
// availability. The release comes after TryEnqueue has dropped the area lock.
func (s *Shop[ID]) seat(c *customer[ID]) (bool, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	if s.closed {
		return false, ErrShopClosed
	}
	c.seated = time.Now()
	if !s.seats.TryEnqueue(c) {
		return false, nil
	}
	s.avail.Release()
	return true, nil
}

// Stop closes the shop:
//  1. New arrivals are rejected with ErrShopClosed.
//  2. The service loop serves every customer already seated, then exits.
//  3. If that takes longer than ShutdownTimeout, the service context is
//     cancelled and remaining customers complete with ErrShutdownTimeout.
//
// A shop that was never started completes its seated customers with
// ErrShopClosed. Stop is safe to call more than once; later calls are no-ops.
func (s *Shop[ID]) Stop() error {
	var stopErr error

	s.once.Do(func() {
		s.cfg.Logger.Printf("[shop] closing")

		s.gate.Lock()
		s.closed = true
		s.gate.Unlock()

		prev := State(s.state.Swap(int32(StateStopped)))
		close(s.stop)
		defer s.cancelService()

		if prev != StateRunning {
			for s.avail.TryWait() {
			}
			for _, c := range s.seats.Drain() {
				s.failed.Add(1)
				c.complete(Rejected, ErrShopClosed)
			}
			s.cfg.Logger.Printf("[shop] closed before opening")
			return
		}

		select {
		case <-s.loopDone:
			s.cfg.Logger.Printf("[shop] closed (every seated customer served)")

		case <-time.After(s.cfg.ShutdownTimeout):
			s.cfg.Logger.Printf("[shop] shutdown timeout (%s) elapsed, cancelling service",
				s.cfg.ShutdownTimeout)
			s.cancelService()
			<-s.loopDone
			s.cfg.Logger.Printf("[shop] closed (forced)")
			stopErr = ErrShutdownTimeout
		}
	})

	return stopErr
}

// State reports the service loop lifecycle.
func (s *Shop[ID]) State() State { return State(s.state.Load()) }

// Waiting returns the number of customers currently seated.
func (s *Shop[ID]) Waiting() int { return s.seats.Len() }

// Metrics returns a snapshot of shop counters. Each field is read atomically
// but the fields are not mutually consistent while customers are moving.
func (s *Shop[ID]) Metrics() Metrics {
	return Metrics{
		Arrived:     s.arrived.Load(),
		Seated:      s.seated.Load(),
		Rejected:    s.rejected.Load(),
		Served:      s.served.Load(),
		Failed:      s.failed.Load(),
		Abandoned:   s.abandoned.Load(),
		PeakWaiting: s.seats.Peak(),
	}
}

// run is the service loop goroutine. It sleeps on the availability count,
// serves one customer per unit, and after Stop drains what is still seated.
func (s *Shop[ID]) run() {
	defer close(s.loopDone)
	s.cfg.Logger.Printf("[barber] started")

	for {
		if s.avail.Count() == 0 {
			s.cfg.Logger.Printf("[barber] sleeping")
		}
		if !s.avail.Wait(s.stop) {
			break
		}
		s.serveNext()
	}

	// closed is set under the write lock before stop is closed, so every
	// Release has already happened and the count is final.
	for s.avail.TryWait() {
		s.serveNext()
	}
	s.cfg.Logger.Printf("[barber] exited")
}

// serveNext dequeues the head customer and completes it exactly once.
func (s *Shop[ID]) serveNext() {
	c := s.seats.Dequeue()

	if err := s.serviceCtx.Err(); err != nil {
		s.failed.Add(1)
		s.cfg.Logger.Printf("[barber] skipping customer %v: %v", c.id, err)
		c.complete(Rejected, ErrShutdownTimeout)
		return
	}

	s.cfg.Logger.Printf("[barber] serving customer %v (waited %s)",
		c.id, time.Since(c.seated).Round(time.Millisecond))

	if err := s.cfg.Service(s.serviceCtx, c.id); err != nil {
		s.failed.Add(1)
		s.cfg.Logger.Printf("[barber] service for customer %v failed: %v", c.id, err)
		c.complete(Served, err)
		return
	}
	s.served.Add(1)
	s.cfg.Logger.Printf("[barber] finished customer %v", c.id)
	c.complete(Served, nil)
}
