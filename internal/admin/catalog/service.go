package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Service exposes the product catalog operations offered by the backend API.
type Service interface {
	// Create registers a new product and returns the record assigned by the backend.
	Create(ctx context.Context, input ProductInput) (*Product, error)
	// List fetches every product and returns an immutable snapshot of the result.
	List(ctx context.Context) (Snapshot, error)
	// Get fetches a single product by id.
	Get(ctx context.Context, id ID) (*Product, error)
	// Update replaces the whole record identified by id.
	Update(ctx context.Context, id ID, input ProductInput) (*Product, error)
	// Delete removes the record identified by id.
	Delete(ctx context.Context, id ID) error
}

// ID identifies a product. Backends may encode it as a JSON number or string.
type ID string

// String returns the raw identifier.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// MarshalJSON emits canonical integer identifiers as JSON numbers and everything else,
// including zero-padded or signed forms such as "007" and "+5", as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("catalog: decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("catalog: decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Product is the single record type managed by the catalog.
type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       float64  `json:"price"`
}

// PrimaryImage returns the first image URL, or an empty string when none is set.
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (p Product) clone() Product {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}

// ProductInput carries the writable fields sent on create and update.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Images      []string `json:"images" validate:"max=10,dive,required,url"`
	Price       float64  `json:"price" validate:"gte=0"`
}

// normalized trims text fields and guarantees images encodes as a JSON array.
func (in ProductInput) normalized() ProductInput {
	out := ProductInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Images:      make([]string, 0, len(in.Images)),
		Price:       in.Price,
	}
	for _, img := range in.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			out.Images = append(out.Images, trimmed)
		}
	}
	return out
}

// Snapshot is the immutable result of a list fetch.
type Snapshot struct {
	products  []Product
	fetchedAt time.Time
}

// NewSnapshot copies products into a new snapshot.
func NewSnapshot(products []Product, fetchedAt time.Time) Snapshot {
	items := make([]Product, 0, len(products))
	for _, p := range products {
		items = append(items, p.clone())
	}
	return Snapshot{products: items, fetchedAt: fetchedAt}
}

// Len returns the number of products in the snapshot.
func (s Snapshot) Len() int {
	return len(s.products)
}

// Products returns a copy of the snapshot contents in backend order.
func (s Snapshot) Products() []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.clone())
	}
	return out
}

// Find looks up a product by id.
func (s Snapshot) Find(id ID) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Product{}, false
}

// FetchedAt reports when the snapshot was taken.
func (s Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}
