// Package registry owns the mutable technician roster. All load and
// availability mutation goes through Registry methods under one lock;
// iteration order is insertion order, which makes routing tie-breaks
// deterministic.
package registry

import (
	"fmt"
	"sync"

	"monitoring-service/internal/config"
	"monitoring-service/internal/models"
)

// Registry holds technicians in insertion order.
type Registry struct {
	mu    sync.Mutex
	order []string
	techs map[string]*models.Technician
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{techs: make(map[string]*models.Technician)}
}

// Seed builds a registry from configured technician seeds.
func Seed(seeds []config.TechnicianSeed) *Registry {
	r := New()
	for _, s := range seeds {
		r.Add(models.Technician{
			ID:          s.ID,
			Name:        s.Name,
			Skills:      s.Skills,
			Available:   s.Available,
			CurrentLoad: s.CurrentLoad,
			MaxCapacity: s.MaxCapacity,
		})
	}
	return r
}

// Add registers a technician. Re-adding an id replaces the entry but keeps
// its position.
func (r *Registry) Add(t models.Technician) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.techs[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	cp := t
	cp.Skills = append([]string(nil), t.Skills...)
	r.techs[t.ID] = &cp
}

// Get returns a copy of the technician with the given id.
func (r *Registry) Get(id string) (models.Technician, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.techs[id]
	if !ok {
		return models.Technician{}, false
	}
	return snapshot(t), true
}

// List returns copies of all technicians in insertion order.
func (r *Registry) List() []models.Technician {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Technician, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, snapshot(r.techs[id]))
	}
	return out
}

// Claim selects the best technician for the required skills and books one
// unit of capacity, atomically:
//
//	tier 1: available with a non-empty skill intersection, lowest current
//	        load, first-seen wins on ties;
//	tier 2: first available technician regardless of skills.
//
// The chosen technician's load is incremented and availability flips off
// when load reaches capacity. Returns false when nobody is available.
func (r *Registry) Claim(required []string) (models.Technician, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *models.Technician
	for _, id := range r.order {
		t := r.techs[id]
		if !t.Available || !overlaps(t.Skills, required) {
			continue
		}
		if best == nil || t.CurrentLoad < best.CurrentLoad {
			best = t
		}
	}
	if best == nil {
		for _, id := range r.order {
			if t := r.techs[id]; t.Available {
				best = t
				break
			}
		}
	}
	if best == nil {
		return models.Technician{}, false
	}

	best.CurrentLoad++
	if best.CurrentLoad >= best.MaxCapacity {
		best.Available = false
	}
	return snapshot(best), true
}

// SetAvailable flips a technician's availability. Recovery after a capacity
// flip is an operational action, never automatic.
func (r *Registry) SetAvailable(id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.techs[id]
	if !ok {
		return fmt.Errorf("technician %s not registered", id)
	}
	t.Available = available
	return nil
}

func overlaps(skills, required []string) bool {
	for _, s := range skills {
		for _, req := range required {
			if s == req {
				return true
			}
		}
	}
	return false
}

func snapshot(t *models.Technician) models.Technician {
	cp := *t
	cp.Skills = append([]string(nil), t.Skills...)
	return cp
}
