package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: deliver last tick's events
	PhaseUpdate                  // 1: connectivity recompute + item transfer
	PhasePostUpdate              // 2: belt path advance, derived state
	PhasePersist                 // 3: autosave + transfer log flush
	PhaseCleanup                 // 4: destroy queued entities
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
