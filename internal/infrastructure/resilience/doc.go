/*
Package resilience provides the circuit breaker that guards the remote intent
translator.

The breaker has three states:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open

While open, calls fail fast with ErrCircuitOpen and the command service falls
back to the keyword translator.

	breaker := resilience.New("translator", resilience.Settings{
		Timeout: 30 * time.Second,
	})
	err := breaker.Do(ctx, func(ctx context.Context) error {
		return client.Call(ctx)
	})
*/
package resilience
