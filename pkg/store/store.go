// Package store persists named inspections: the input document together
// with its derived graph and, when computed, its layout.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelviz/modelviz/pkg/graph"
)

// Inspection is one saved unit of work. Name doubles as the storage key and
// must pass errors.ValidateInspectionName.
type Inspection struct {
	Name      string    `json:"name" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Document is the original input, kept so a re-derive with different
	// options starts from the same content. Backends may normalize its
	// whitespace when encoding the record; key order and values survive.
	Document json.RawMessage `json:"document" bson:"document"`

	Graph  graph.Graph   `json:"graph" bson:"graph"`
	Layout *graph.Layout `json:"layout,omitempty" bson:"layout,omitempty"`
}

// Store is the persistence interface for inspections.
type Store interface {
	// Save creates or replaces an inspection by name.
	Save(ctx context.Context, insp *Inspection) error

	// Load retrieves an inspection by name.
	// Returns an INSPECTION_NOT_FOUND error for unknown names.
	Load(ctx context.Context, name string) (*Inspection, error)

	// List returns all saved inspection names, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes an inspection by name.
	// Returns an INSPECTION_NOT_FOUND error for unknown names.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
