package barbershop

import (
	"sync/atomic"
	"time"
)

// customer is one arrival. It is created and awaited by a single Arrive call;
// the service loop only reads its id and completes it.
type customer[ID comparable] struct {
	id      ID
	seated  time.Time
	done    chan struct{}
	settled atomic.Bool

	// written once, before done is closed
	outcome Outcome
	err     error
}

func newCustomer[ID comparable](id ID) *customer[ID] {
	return &customer[ID]{id: id, done: make(chan struct{})}
}

// complete records the result and wakes the waiting arrival. A second call
// is a coordination bug and panics with ErrAlreadyCompleted.
func (c *customer[ID]) complete(outcome Outcome, err error) {
	if !c.settled.CompareAndSwap(false, true) {
		panic(ErrAlreadyCompleted)
	}
	c.outcome = outcome
	c.err = err
	close(c.done)
}

// Done is closed once the customer's service has finished.
func (c *customer[ID]) Done() <-chan struct{} { return c.done }
