package systems

import (
	"sort"
	"time"

	"github.com/zeusync/tilephys/internal/core/models"
)

// System processes one stage of the tick for a single actor at a time.
// UpdateActor is called for every actor before the next phase starts, and
// must only touch the actor it is given.
type System interface {
	Name() string
	Phase() ExecutionPhase
	UpdateActor(dt float64, actor *models.Actor) error
}

// ExecutionPhase defines when a system runs within a tick
type ExecutionPhase uint8

const (
	PhaseInput ExecutionPhase = iota
	PhaseVelocity
	PhaseCollision
	PhaseTransform
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseVelocity:
		return "velocity"
	case PhaseCollision:
		return "collision"
	case PhaseTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	EntitiesProcessed    uint64
}

// Record folds one phase execution into m.
func (m *Metrics) Record(elapsed time.Duration, entities int, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += elapsed
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if elapsed > m.MaxExecutionTime {
		m.MaxExecutionTime = elapsed
	}
	m.EntitiesProcessed += uint64(entities)
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}

// SortByPhase orders systems by phase, keeping registration order within a phase.
func SortByPhase(list []System) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Phase() < list[j].Phase()
	})
}
