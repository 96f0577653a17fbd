package barbershop

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the shop.
var (
	ErrShopClosed      = errors.New("barbershop is closed")
	ErrAlreadyStarted  = errors.New("barbershop service loop already started")
	ErrShutdownTimeout = errors.New("shutdown timeout elapsed; service was force-cancelled")
)

// Invariant violations. These are raised with panic, never returned.
var (
	ErrEmptyWaitingArea = errors.New("dequeue from empty waiting area")
	ErrAlreadyCompleted = errors.New("customer completion signalled twice")
)

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}
