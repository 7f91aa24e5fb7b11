package schema

import (
	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// Engine runs the profiler over every column of a dataset and assembles a
// Schema. Columns are profiled independently; there is no cross-column
// inference. Infer is a pure function of the dataset's current data, so
// identical data always yields an identical schema.
type Engine struct {
	profiler *Profiler
}

func NewEngine(opt Options) *Engine {
	return &Engine{profiler: NewProfiler(opt)}
}

// Infer produces the schema for ds. A dataset with zero rows or zero columns
// still gets a schema (every present column RoleUnknown) but the schema is
// marked low-confidence and an EmptyDatasetError is returned alongside it;
// callers decide whether that is fatal. Suggestion logic must treat a
// low-confidence schema as having no eligible columns.
func (e *Engine) Infer(ds *dataset.Dataset) (*Schema, error) {
	s := &Schema{
		Dataset:  ds.Name,
		RowCount: len(ds.Rows),
		byName:   make(map[string]*ColumnProfile, len(ds.Columns)),
	}
	if len(ds.Rows) == 0 || len(ds.Columns) == 0 {
		s.LowConfidence = true
		for _, c := range ds.Columns {
			p := &ColumnProfile{Name: c, Role: RoleUnknown}
			s.Columns = append(s.Columns, p)
			s.byName[c] = p
		}
		return s, &dataset.EmptyDatasetError{Name: ds.Name}
	}
	for _, c := range ds.Columns {
		values, err := ds.Column(c)
		if err != nil {
			return nil, err
		}
		p := e.profiler.Profile(c, values)
		s.Columns = append(s.Columns, p)
		s.byName[c] = p
	}
	return s, nil
}
