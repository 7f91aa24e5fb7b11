package dataset

import "fmt"

// NotFoundError indicates the named dataset is not in the registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset %q not loaded; load it first", e.Name)
}

// AlreadyLoadedError indicates a load without overwrite hit an existing name.
type AlreadyLoadedError struct {
	Name string
}

func (e *AlreadyLoadedError) Error() string {
	return fmt.Sprintf("dataset %q is already loaded; pass overwrite to replace it", e.Name)
}

// ColumnNotFoundError indicates a requested column is absent from a dataset.
type ColumnNotFoundError struct {
	Dataset string
	Column  string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in dataset %q", e.Column, e.Dataset)
}

// EmptyDatasetError indicates zero rows or zero columns where data is required.
type EmptyDatasetError struct {
	Name string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("dataset %q has no rows or no columns", e.Name)
}

// SchemaMismatchError indicates two datasets disagree on the role of a column
// in a way that makes the requested operation meaningless.
type SchemaMismatchError struct {
	Column      string
	DatasetA    string
	DatasetB    string
	RoleA       string
	RoleB       string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("column %q has incompatible roles: %s in %q vs %s in %q",
		e.Column, e.RoleA, e.DatasetA, e.RoleB, e.DatasetB)
}
