package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/systems"
	"github.com/zeusync/tilephys/pkg/concurrent"
)

var ErrDuplicateSystem = errors.New("system already registered")

// Manager runs registered systems phase by phase over a set of actors.
// Every actor finishes a phase before the next phase begins.
type Manager struct {
	systems  []systems.System
	metrics  map[string]*systems.Metrics
	parallel bool
	workers  int
}

func NewManager(parallel bool, workers int) *Manager {
	return &Manager{
		metrics:  make(map[string]*systems.Metrics),
		parallel: parallel,
		workers:  workers,
	}
}

func (m *Manager) RegisterSystem(s systems.System) error {
	if _, ok := m.metrics[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	m.systems = append(m.systems, s)
	m.metrics[s.Name()] = &systems.Metrics{}
	systems.SortByPhase(m.systems)
	return nil
}

// ExecutionOrder lists system names in the order they run.
func (m *Manager) ExecutionOrder() []string {
	names := make([]string, len(m.systems))
	for i, s := range m.systems {
		names[i] = s.Name()
	}
	return names
}

// SystemMetrics returns a copy of the named system's counters.
func (m *Manager) SystemMetrics(name string) (systems.Metrics, bool) {
	metrics, ok := m.metrics[name]
	if !ok {
		return systems.Metrics{}, false
	}
	return *metrics, true
}

// Update runs one tick. It stops at the first phase that fails.
func (m *Manager) Update(dt float64, actors []*models.Actor) error {
	for _, s := range m.systems {
		start := time.Now()
		err := m.runSystem(s, dt, actors)
		m.metrics[s.Name()].Record(time.Since(start), len(actors), err)
		if err != nil {
			return fmt.Errorf("%s phase: %w", s.Phase(), err)
		}
	}
	return nil
}

func (m *Manager) runSystem(s systems.System, dt float64, actors []*models.Actor) error {
	if m.parallel && len(actors) > 1 {
		return concurrent.ForEach(actors, m.workers, func(a *models.Actor) error {
			return s.UpdateActor(dt, a)
		})
	}
	for _, a := range actors {
		if err := s.UpdateActor(dt, a); err != nil {
			return err
		}
	}
	return nil
}
