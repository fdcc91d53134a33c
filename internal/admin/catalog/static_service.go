package catalog

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// StaticService is an in-memory Service used for local development, the stub backend and tests.
type StaticService struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
	now      func() time.Time
}

// NewStaticService constructs a StaticService seeded with products. Seeded records without an
// id receive sequential numeric ids.
func NewStaticService(seed ...Product) *StaticService {
	s := &StaticService{
		nextID: 1,
		now:    time.Now,
	}
	for _, p := range seed {
		p = p.clone()
		if p.ID.IsZero() {
			p.ID = s.allocateID()
		} else if n, err := strconv.ParseInt(p.ID.String(), 10, 64); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		s.products = append(s.products, p)
	}
	return s
}

// DemoProducts returns a small sample catalog for local development.
func DemoProducts() []Product {
	return []Product{
		{
			Name:        "Shampoo Camomila",
			Description: "Shampoo suave com extrato de camomila para cabelos claros. Uso diário, 300 ml.",
			Images:      []string{"https://via.placeholder.com/200x150?text=Shampoo"},
			Price:       19.9,
		},
		{
			Name:        "Condicionador Argan",
			Description: "Condicionador com **óleo de argan** para hidratação profunda.",
			Images:      []string{},
			Price:       24.5,
		},
	}
}

// Create stores a new product.
func (s *StaticService) Create(_ context.Context, input ProductInput) (*Product, error) {
	in := input.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:          s.allocateID(),
		Name:        in.Name,
		Description: in.Description,
		Images:      in.Images,
		Price:       in.Price,
	}
	s.products = append(s.products, p)
	out := p.clone()
	return &out, nil
}

// List returns a snapshot of every stored product in insertion order.
func (s *StaticService) List(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewSnapshot(s.products, s.now()), nil
}

// Get returns the product with the given id.
func (s *StaticService) Get(_ context.Context, id ID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, &StatusError{Operation: "get product", StatusCode: http.StatusNotFound}
	}
	out := s.products[idx].clone()
	return &out, nil
}

// Update replaces the stored product.
func (s *StaticService) Update(_ context.Context, id ID, input ProductInput) (*Product, error) {
	in := input.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, &StatusError{Operation: "update product", StatusCode: http.StatusNotFound}
	}
	s.products[idx] = Product{
		ID:          s.products[idx].ID,
		Name:        in.Name,
		Description: in.Description,
		Images:      in.Images,
		Price:       in.Price,
	}
	out := s.products[idx].clone()
	return &out, nil
}

// Delete removes the product.
func (s *StaticService) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &StatusError{Operation: "delete product", StatusCode: http.StatusNotFound}
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	return nil
}

func (s *StaticService) indexOf(id ID) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *StaticService) allocateID() ID {
	id := ID(strconv.FormatInt(s.nextID, 10))
	s.nextID++
	return id
}
