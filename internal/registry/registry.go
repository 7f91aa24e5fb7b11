// Package registry owns the mapping from dataset name to loaded data and its
// inferred schema. It is an explicit object handed to every operation, not
// ambient global state; that keeps the locking discipline testable.
package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Entry pairs a dataset with its schema. Both are replaced together; a
// reader never observes a dataset with a stale schema.
type Entry struct {
	Dataset *dataset.Dataset
	Schema  *schema.Schema
}

// Info is one row of the registry listing.
type Info struct {
	Name           string    `json:"name"`
	Rows           int       `json:"rows"`
	Columns        int       `json:"columns"`
	Format         string    `json:"format"`
	LoadedAt       time.Time `json:"loaded_at"`
	EstimatedBytes int64     `json:"estimated_bytes"`
}

// Registry holds all loaded datasets. Mutations (Load, Clear, Merge) take
// the write lock; reads take the read lock and return the immutable entry,
// so analytic work proceeds without holding any lock.
type Registry struct {
	mu     sync.RWMutex
	engine *schema.Engine
	log    *slog.Logger

	entries map[string]*Entry
}

func New(engine *schema.Engine, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		engine:  engine,
		log:     log,
		entries: make(map[string]*Entry),
	}
}

// Load constructs a dataset under name, infers its schema and stores both
// atomically. A name collision without overwrite fails with
// AlreadyLoadedError and leaves the existing entry untouched. Empty data
// fails with EmptyDatasetError and stores nothing: load is all-or-nothing.
func (r *Registry) Load(name string, columns []string, rows []dataset.Record, overwrite bool) (*Entry, error) {
	ds := dataset.New(name, columns, rows)
	sch, err := r.engine.Infer(ds)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Dataset: ds, Schema: sch}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists && !overwrite {
		return nil, &dataset.AlreadyLoadedError{Name: name}
	}
	r.entries[name] = entry
	r.log.Info("dataset loaded", "name", name, "rows", len(ds.Rows), "columns", len(ds.Columns))
	return entry, nil
}

// LoadDataset stores an already constructed dataset (merge results, parser
// output carrying format metadata). Same collision and emptiness rules as
// Load.
func (r *Registry) LoadDataset(ds *dataset.Dataset, overwrite bool) (*Entry, error) {
	sch, err := r.engine.Infer(ds)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Dataset: ds, Schema: sch}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[ds.Name]; exists && !overwrite {
		return nil, &dataset.AlreadyLoadedError{Name: ds.Name}
	}
	r.entries[ds.Name] = entry
	r.log.Info("dataset loaded", "name", ds.Name, "rows", len(ds.Rows), "columns", len(ds.Columns), "format", ds.Format)
	return entry, nil
}

// Get returns the entry for name or NotFoundError.
func (r *Registry) Get(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, &dataset.NotFoundError{Name: name}
	}
	return e, nil
}

// List returns summary info for every entry, sorted by name. Read-only.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		out = append(out, Info{
			Name:           name,
			Rows:           len(e.Dataset.Rows),
			Columns:        len(e.Dataset.Columns),
			Format:         e.Dataset.Format,
			LoadedAt:       e.Dataset.LoadedAt,
			EstimatedBytes: e.Dataset.EstimateBytes(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear removes one entry. Clearing an absent name fails with NotFoundError.
func (r *Registry) Clear(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return &dataset.NotFoundError{Name: name}
	}
	delete(r.entries, name)
	r.log.Info("dataset cleared", "name", name)
	return nil
}

// ClearAll removes every entry and reports how many were removed. Always
// safe; a no-op on an empty registry.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.entries = make(map[string]*Entry)
	if n > 0 {
		r.log.Info("all datasets cleared", "count", n)
	}
	return n
}

// MemoryReport describes advisory memory held by the registry. It never
// evicts; eviction is an explicit caller action via Clear.
type MemoryReport struct {
	TotalBytes int64        `json:"total_bytes"`
	Datasets   []Info       `json:"datasets"`
	Hints      []MemoryHint `json:"hints,omitempty"`
}

// MemoryHint is a per-column suggestion for shrinking a dataset upstream.
type MemoryHint struct {
	Dataset    string `json:"dataset"`
	Column     string `json:"column"`
	Suggestion string `json:"suggestion"`
}

// Memory reports estimated bytes per dataset plus compaction hints for text
// columns that would dictionary-encode well.
func (r *Registry) Memory() MemoryReport {
	infos := r.List()
	rep := MemoryReport{Datasets: infos}
	for _, info := range infos {
		rep.TotalBytes += info.EstimatedBytes
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, e := range r.entries {
		for _, col := range e.Schema.Columns {
			if col.Role == schema.RoleText && col.NonNull > 0 &&
				float64(col.Distinct)/float64(col.NonNull) < 0.5 {
				rep.Hints = append(rep.Hints, MemoryHint{
					Dataset:    name,
					Column:     col.Name,
					Suggestion: "low-cardinality text column; consider categorical encoding at the source",
				})
			}
		}
	}
	sort.Slice(rep.Hints, func(i, j int) bool {
		if rep.Hints[i].Dataset == rep.Hints[j].Dataset {
			return rep.Hints[i].Column < rep.Hints[j].Column
		}
		return rep.Hints[i].Dataset < rep.Hints[j].Dataset
	})
	return rep
}
