package barbershop

// availability counts seated customers the barber has not picked up yet.
//
// A buffered channel acts as the counting semaphore:
//
//	Release: avail <- struct{}{}  (count++, wakes at most one waiter)
//	Wait:    <-avail              (blocks while count == 0, then count--)
//
// The buffer is sized to the waiting area, so Release can never block: the
// count never exceeds the number of occupied seats.
type availability struct {
	ch chan struct{}
}

func newAvailability(capacity int) *availability {
	return &availability{ch: make(chan struct{}, capacity)}
}

// Release records one more available customer.
func (a *availability) Release() {
	select {
	case a.ch <- struct{}{}:
	default:
		panic("barbershop: availability count exceeds waiting area capacity")
	}
}

// Wait blocks until a customer is available or stop is closed. It reports
// whether a unit was consumed.
func (a *availability) Wait(stop <-chan struct{}) bool {
	select {
	case <-a.ch:
		return true
	case <-stop:
		return false
	}
}

// TryWait consumes a unit if one is available without blocking.
func (a *availability) TryWait() bool {
	select {
	case <-a.ch:
		return true
	default:
		return false
	}
}

// Count returns the current value. Only meaningful when no goroutine is
// concurrently releasing or waiting.
func (a *availability) Count() int { return len(a.ch) }
