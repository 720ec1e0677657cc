package component

// Source periodically loads an item into the building's own ejector slots
// (miners, spawners). IntervalTicks gates production; Countdown is the
// remaining ticks until the next item.
type Source struct {
	Item          int32
	IntervalTicks int
	Countdown     int
}
