package timeout

// Spawner starts fn on its own execution unit. The name identifies the
// relay in diagnostics. A non-nil error means the unit could not be
// started and construction of the adapter fails.
//
// The default spawner runs fn on a new goroutine and cannot fail; custom
// spawners exist so hosts can route relays through their own schedulers
// and so resource exhaustion can be simulated in tests.
type Spawner func(name string, fn func()) error

func goSpawner(_ string, fn func()) error {
	go fn()
	return nil
}
