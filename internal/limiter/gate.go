package limiter

// Gate is the concurrency ceiling on in-flight translations. It holds no
// state of its own; the live active count comes from the caller's work-item
// collection on every tick.
type Gate struct {
	Ceiling int
}

// Available returns how many more items may run given active in-flight
// items, clamped at zero.
func (g Gate) Available(active int) int {
	slots := g.Ceiling - active
	if slots < 0 {
		return 0
	}
	return slots
}
