// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters holds one token bucket per client address.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	// refill is how long an unused bucket takes to fill up again. A client
	// idle for longer is indistinguishable from a new one.
	refill time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		refill:  time.Duration(float64(burst) / rps * float64(time.Second)),
	}
}

// allow spends one token from the client's bucket.
func (cl *clientLimiters) allow(client string, now time.Time) bool {
	cl.mu.Lock()
	c, ok := cl.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[client] = c
	}
	c.lastSeen = now
	cl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// prune drops clients whose bucket has refilled. If more than maxClients
// remain the table is reset. It returns the number of clients removed.
func (cl *clientLimiters) prune(now time.Time, maxClients int) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	before := len(cl.clients)
	for client, c := range cl.clients {
		if now.Sub(c.lastSeen) > cl.refill {
			delete(cl.clients, client)
		}
	}
	if len(cl.clients) > maxClients {
		cl.clients = make(map[string]*clientLimiter)
	}
	return before - len(cl.clients)
}

func (cl *clientLimiters) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}
