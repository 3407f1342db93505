/*
Package resilience provides a circuit breaker guarding page fetches.

# Overview

A misbehaving or rate-limiting site would otherwise burn a task's action
budget on requests that cannot succeed. The breaker fails those requests
fast and probes for recovery after a cooldown.

# Usage

	breaker := resilience.New("web", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Do(func() error {
		return client.Fetch(ctx, url)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                              |
	                                          [failure]
	                                              v
	                                            Open
*/
package resilience
