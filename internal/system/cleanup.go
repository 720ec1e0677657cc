package system

import (
	"time"

	"github.com/fabgrid/engine/internal/core/ecs"
	coresys "github.com/fabgrid/engine/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	entities *ecs.World
}

func NewCleanupSystem(entities *ecs.World) *CleanupSystem {
	return &CleanupSystem{entities: entities}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.entities.FlushDestroyQueue()
}
