package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/marcodamonte/concurrency/sleeping-barber/barbershop"
)

// Customer id schemes accepted by --ids.
const (
	idsSequential = "seq"
	idsUUID       = "uuid"
)

// simConfig drives one simulated day at the shop.
type simConfig struct {
	Seats     int
	Customers int
	IDs       string

	ArriveMin, ArriveMax   time.Duration // delay before each customer walks in
	ServiceMin, ServiceMax time.Duration // haircut duration

	MaxInflight     int64         // bound on concurrent customer goroutines; 0 = none
	WaitTimeout     time.Duration // how long a seated customer waits; 0 = forever
	ShutdownTimeout time.Duration

	Logger *log.Logger
}

// simulate opens a shop, sends cfg.Customers arrivals at it and closes it once
// every arrival has returned.
func simulate(ctx context.Context, cfg simConfig) (barbershop.Metrics, error) {
	switch cfg.IDs {
	case idsSequential, "":
		return runDay(ctx, cfg, sequentialIDs(cfg.Customers))
	case idsUUID:
		ids, err := uuidIDs(cfg.Customers)
		if err != nil {
			return barbershop.Metrics{}, err
		}
		return runDay(ctx, cfg, ids)
	default:
		return barbershop.Metrics{}, fmt.Errorf("unknown id scheme %q (want %s or %s)",
			cfg.IDs, idsSequential, idsUUID)
	}
}

func sequentialIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

func uuidIDs(n int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("generating customer id: %w", err)
		}
		ids[i] = id
	}
	return ids, nil
}

func runDay[ID comparable](ctx context.Context, cfg simConfig, ids []ID) (barbershop.Metrics, error) {
	shop, err := barbershop.New(barbershop.Config[ID]{
		Seats:           cfg.Seats,
		Service:         haircut[ID](cfg.ServiceMin, cfg.ServiceMax),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          cfg.Logger,
	})
	if err != nil {
		return barbershop.Metrics{}, fmt.Errorf("opening shop: %w", err)
	}
	if err := shop.Start(); err != nil {
		return barbershop.Metrics{}, fmt.Errorf("starting barber: %w", err)
	}

	var sem *semaphore.Weighted
	if cfg.MaxInflight > 0 {
		sem = semaphore.NewWeighted(cfg.MaxInflight)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id // per-iteration copy (Go 1.22 loopvar semantics under a go 1.21 directive)
		if sem != nil {
			if err := sem.Acquire(gctx, 1); err != nil {
				break // interrupted; no more customers
			}
		}
		g.Go(func() error {
			if sem != nil {
				defer sem.Release(1)
			}
			return visit(gctx, shop, cfg, id)
		})
	}
	waitErr := g.Wait()

	stopErr := shop.Stop()
	m := shop.Metrics()
	if err := errors.Join(waitErr, stopErr); err != nil {
		return m, fmt.Errorf("closing shop: %w", err)
	}
	return m, nil
}

// visit is one customer: stroll over, try to sit, and wait for the haircut.
func visit[ID comparable](ctx context.Context, shop *barbershop.Shop[ID], cfg simConfig, id ID) error {
	select {
	case <-time.After(randBetween(cfg.ArriveMin, cfg.ArriveMax)):
	case <-ctx.Done():
		return nil
	}

	waitCtx := ctx
	if cfg.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.WaitTimeout)
		defer cancel()
	}

	outcome, err := shop.ArriveContext(waitCtx, id)
	if err == nil || outcome == barbershop.Abandoned || errors.Is(err, barbershop.ErrShopClosed) {
		return nil
	}
	return err
}

// haircut simulates service work lasting between lo and hi.
func haircut[ID comparable](lo, hi time.Duration) barbershop.ServiceFunc[ID] {
	return func(ctx context.Context, id ID) error {
		select {
		case <-time.After(randBetween(lo, hi)):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// randBetween returns a random duration in [lo, hi).
func randBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)))
}
