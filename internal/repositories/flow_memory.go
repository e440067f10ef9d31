package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-ticketing-storefront/internal/models"
)

// MemoryFlowStore keeps flows in process memory. Flows are lost on restart.
type MemoryFlowStore struct {
	mu    sync.RWMutex
	flows map[string]models.CheckoutFlow
}

// NewMemoryFlowStore creates an empty store
func NewMemoryFlowStore() *MemoryFlowStore {
	return &MemoryFlowStore{flows: make(map[string]models.CheckoutFlow)}
}

func (s *MemoryFlowStore) Create(ctx context.Context, flow *models.CheckoutFlow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flows[flow.ID]; ok {
		return ErrFlowExists
	}
	for _, existing := range s.flows {
		if existing.IdempotencyKey == flow.IdempotencyKey {
			return ErrFlowExists
		}
	}
	s.flows[flow.ID] = *flow
	return nil
}

func (s *MemoryFlowStore) Get(ctx context.Context, id string) (*models.CheckoutFlow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flow, ok := s.flows[id]
	if !ok {
		return nil, models.ErrFlowNotFound
	}
	return &flow, nil
}

func (s *MemoryFlowStore) GetByOrderCode(ctx context.Context, orderCode string) (*models.CheckoutFlow, error) {
	return s.find(func(f models.CheckoutFlow) bool { return orderCode != "" && f.OrderCode == orderCode })
}

func (s *MemoryFlowStore) GetByBookingID(ctx context.Context, bookingID string) (*models.CheckoutFlow, error) {
	return s.find(func(f models.CheckoutFlow) bool { return bookingID != "" && f.BookingID == bookingID })
}

// find returns the most recently updated flow matching match
func (s *MemoryFlowStore) find(match func(models.CheckoutFlow) bool) (*models.CheckoutFlow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.CheckoutFlow
	for _, flow := range s.flows {
		if !match(flow) {
			continue
		}
		if found == nil || flow.UpdatedAt.After(found.UpdatedAt) {
			f := flow
			found = &f
		}
	}
	if found == nil {
		return nil, models.ErrFlowNotFound
	}
	return found, nil
}

func (s *MemoryFlowStore) Update(ctx context.Context, flow *models.CheckoutFlow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flows[flow.ID]; !ok {
		return models.ErrFlowNotFound
	}
	s.flows[flow.ID] = *flow
	return nil
}

func (s *MemoryFlowStore) ListStale(ctx context.Context, state models.FlowState, before time.Time) ([]*models.CheckoutFlow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []*models.CheckoutFlow
	for _, flow := range s.flows {
		if flow.State == state && flow.UpdatedAt.Before(before) {
			f := flow
			stale = append(stale, &f)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].UpdatedAt.Before(stale[j].UpdatedAt)
	})
	return stale, nil
}
