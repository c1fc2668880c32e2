package book

import (
	"context"
	"sort"
	"sync"
)

// PlanStore persists layout plans as immutable versions. The planner itself
// never touches persistence; the web layer saves each produced plan through
// this interface.
type PlanStore interface {
	// SavePlan stores a plan. Plans are write-once: saving a plan with an
	// existing ID is an error.
	SavePlan(ctx context.Context, plan *BookLayoutPlan) error

	// GetPlan returns the plan with the given ID, or ErrPlanNotFound.
	GetPlan(ctx context.Context, id string) (*BookLayoutPlan, error)

	// ListPlans returns stored plans, newest first, up to limit.
	ListPlans(ctx context.Context, limit int) ([]*BookLayoutPlan, error)
}

// MemoryPlanStore is an in-memory PlanStore. It is safe for concurrent use.
type MemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*BookLayoutPlan

	// Error injection for tests
	SaveError error
	GetError  error
	ListError error
}

// NewMemoryPlanStore creates an empty in-memory plan store.
func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{
		plans: make(map[string]*BookLayoutPlan),
	}
}

// SavePlan stores a copy of the plan.
func (s *MemoryPlanStore) SavePlan(ctx context.Context, plan *BookLayoutPlan) error {
	if s.SaveError != nil {
		return s.SaveError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.plans[plan.ID]; exists {
		return &ConfigurationError{Field: "plan ID", Reason: "already exists: " + plan.ID}
	}
	cp := *plan
	s.plans[plan.ID] = &cp
	return nil
}

// GetPlan returns the stored plan with the given ID.
func (s *MemoryPlanStore) GetPlan(ctx context.Context, id string) (*BookLayoutPlan, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := *plan
	return &cp, nil
}

// ListPlans returns stored plans sorted newest first.
func (s *MemoryPlanStore) ListPlans(ctx context.Context, limit int) ([]*BookLayoutPlan, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	plans := make([]*BookLayoutPlan, 0, len(s.plans))
	for _, p := range s.plans {
		cp := *p
		plans = append(plans, &cp)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}
