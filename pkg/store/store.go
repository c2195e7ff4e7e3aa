// Package store persists generated gasket runs so they can be listed,
// fetched and deleted after the generating request has finished.
//
// Implementations for different backends:
//   - [MemoryStore]: in-process map for tests and single-process servers
//   - [FileStore]: one JSON file per run, for the CLI
//   - [RedisStore]: Redis keys plus a sorted-set index, for shared servers
//   - [MongoStore]: a MongoDB collection
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses $XDG_DATA_HOME/gasket/runs/
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	run := store.NewRun(id, docJSON, store.Summary{Policy: "outer", MaxDepth: 3})
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//	runs, err := st.List(ctx, 20)
//
// Get and Delete fail with a NOT_FOUND coded error (wrapping [ErrNotFound])
// for unknown ids, and with INVALID_ID for malformed ones. All
// implementations are safe for concurrent use.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// ErrNotFound is wrapped by errors returned for unknown run ids.
var ErrNotFound = stderrors.New("run not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 50

// Summary describes the options a run was generated with.
type Summary struct {
	Policy   string       `json:"policy" bson:"policy"`
	MaxDepth int          `json:"max_depth" bson:"max_depth"`
	Circles  int          `json:"circles" bson:"circles"`
	Seed     []geom.Point `json:"seed,omitempty" bson:"seed,omitempty"`
}

// Run is one persisted generation.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   Summary   `json:"summary"`

	// Document is the serialized gasket JSON document.
	Document []byte `json:"document"`
}

// NewRun creates a run stamped with the current time.
func NewRun(id string, document []byte, summary Summary) *Run {
	return &Run{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
		Document:  document,
	}
}

// Store persists runs.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with the given id.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error

	Close() error
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "run %s", id)
}

// IsNotFound reports whether err marks a missing run.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

func validateRun(run *Run) error {
	if run == nil {
		return errors.New(errors.ErrCodeInvalidInput, "run is nil")
	}
	return errors.ValidateRunID(run.ID)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
