package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	// ── Cancel the day on SIGINT / SIGTERM ───────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(logger).RunContext(ctx, os.Args); err != nil {
		logger.Fatalf("[main] %v", err)
	}
}

func newApp(logger *log.Logger) *cli.App {
	return &cli.App{
		Name:  "sleeping-barber",
		Usage: "simulate a single-barber shop with a bounded waiting room",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "seats", Aliases: []string{"s"}, Value: 3, Usage: "waiting-room `SEATS`"},
			&cli.IntFlag{Name: "customers", Aliases: []string{"n"}, Value: 15, Usage: "number of customers to send"},
			&cli.StringFlag{Name: "ids", Value: idsSequential, Usage: "customer id scheme: seq or uuid"},
			&cli.DurationFlag{Name: "arrive-min", Value: 200 * time.Millisecond, Usage: "shortest delay before a customer arrives"},
			&cli.DurationFlag{Name: "arrive-max", Value: time.Second, Usage: "longest delay before a customer arrives"},
			&cli.DurationFlag{Name: "service-min", Value: 800 * time.Millisecond, Usage: "shortest haircut"},
			&cli.DurationFlag{Name: "service-max", Value: 2 * time.Second, Usage: "longest haircut"},
			&cli.Int64Flag{Name: "max-inflight", Usage: "limit concurrent customers (0 = unlimited)"},
			&cli.DurationFlag{Name: "wait-timeout", Usage: "give up waiting after this long once seated (0 = never)"},
			&cli.DurationFlag{Name: "shutdown-timeout", Value: 5 * time.Second, Usage: "time allowed to finish seated customers at closing"},
		},
		Action: func(c *cli.Context) error {
			cfg := simConfig{
				Seats:           c.Int("seats"),
				Customers:       c.Int("customers"),
				IDs:             c.String("ids"),
				ArriveMin:       c.Duration("arrive-min"),
				ArriveMax:       c.Duration("arrive-max"),
				ServiceMin:      c.Duration("service-min"),
				ServiceMax:      c.Duration("service-max"),
				MaxInflight:     c.Int64("max-inflight"),
				WaitTimeout:     c.Duration("wait-timeout"),
				ShutdownTimeout: c.Duration("shutdown-timeout"),
				Logger:          logger,
			}
			if cfg.Customers < 0 {
				return fmt.Errorf("--customers must not be negative, got %d", cfg.Customers)
			}

			start := time.Now()
			m, err := simulate(c.Context, cfg)
			logger.Printf("[main] day over in %s: arrived=%d seated=%d rejected=%d served=%d failed=%d abandoned=%d peak=%d/%d",
				time.Since(start).Round(time.Millisecond),
				m.Arrived, m.Seated, m.Rejected, m.Served, m.Failed, m.Abandoned, m.PeakWaiting, cfg.Seats)
			return err
		},
	}
}
