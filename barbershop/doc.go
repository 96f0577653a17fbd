// Package barbershop implements the sleeping-barber coordination problem: a
// single service loop (the barber) consumes customers from a bounded waiting
// area, sleeping while the area is empty and waking exactly once per seated
// customer. Every customer blocks until its own service completes.
//
// Lifecycle:
//
//	shop, err := barbershop.New(barbershop.Config[int]{Seats: 3, Service: cut})
//	shop.Start()          // launches the single service loop
//	shop.Arrive(id)       // blocks until served, or returns Rejected at once
//	shop.Stop()           // stop accepting, drain seated customers, exit loop
package barbershop
