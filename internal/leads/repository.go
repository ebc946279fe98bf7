package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
}

// InMemoryRepository keeps leads in process memory. It is the default for
// demo mode, where state is intentionally lost on restart.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// NewSeededRepository creates an in-memory repository preloaded with the
// demo leads every fresh install shows.
func NewSeededRepository() *InMemoryRepository {
	r := NewInMemoryRepository()
	seed := []*Lead{
		{ID: uuid.NewString(), Name: "Rahul Sharma", Phone: "9820012345", Requirement: "Inquiry for 12th Science batch", Source: "chat", Status: StatusNew, CreatedAt: time.Now().UTC().Add(-72 * time.Hour)},
		{ID: uuid.NewString(), Name: "Priya Verma", Phone: "9930054321", Requirement: "Wants demo class for Commerce", Source: "chat", Status: StatusContacted, CreatedAt: time.Now().UTC().Add(-48 * time.Hour)},
		{ID: uuid.NewString(), Name: "Amit Gupta", Phone: "9769011223", Requirement: "Discount on group admission", Source: "chat", Status: StatusClosed, CreatedAt: time.Now().UTC().Add(-24 * time.Hour)},
	}
	for _, l := range seed {
		r.leads[l.ID] = l
	}
	return r
}

// Create creates a new lead in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Phone:       req.Phone,
		Requirement: req.Requirement,
		Source:      req.Source,
		Status:      StatusNew,
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}

	copied := *lead
	return &copied, nil
}

// List returns leads newest first, optionally filtered by status.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	r.mu.RLock()
	all := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		copied := *l
		all = append(all, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			return []*Lead{}, nil
		}
		all = all[filter.Offset:]
	}
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, nil
}

// UpdateStatus moves a lead to another pipeline stage.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	lead.Status = status

	copied := *lead
	return &copied, nil
}
