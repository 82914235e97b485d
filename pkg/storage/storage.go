// Package storage persists mindmap documents.
//
// Two backends are provided:
//   - file: Atomic single-file persistence with backup-on-save, for CLI use
//   - mongo: A MongoDB document store for server deployments
//
// Both speak [format.Document], the canonical serialization type, so a
// document saved with one backend can be loaded by the other.
package storage

import (
	"context"
	"time"

	"github.com/mindgrid/mindgrid/pkg/format"
)

// Store persists documents by name.
type Store interface {
	// Save writes a document under the given name, replacing any previous
	// version.
	Save(ctx context.Context, name string, doc format.Document) error

	// Load retrieves a document. Reports DOCUMENT_NOT_FOUND when the name
	// is unknown.
	Load(ctx context.Context, name string) (format.Document, error)

	// List returns stored document infos sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a document. Reports DOCUMENT_NOT_FOUND when the name
	// is unknown.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Info describes a stored document.
type Info struct {
	Name      string    `json:"name" bson:"name"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
