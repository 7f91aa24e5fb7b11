package analytics

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// InvalidColumnRoleError indicates an operation argument whose inferred role
// does not satisfy the operation's prerequisite. It names the expected
// role(s) so the caller can correct the request without inspecting internals.
type InvalidColumnRoleError struct {
	Dataset  string
	Column   string
	Actual   schema.Role
	Expected []schema.Role
}

func (e *InvalidColumnRoleError) Error() string {
	want := make([]string, len(e.Expected))
	for i, r := range e.Expected {
		want[i] = r.String()
	}
	if e.Column == "" {
		return fmt.Sprintf("dataset %q has no column with role %s", e.Dataset, strings.Join(want, " or "))
	}
	return fmt.Sprintf("column %q in dataset %q has role %s, operation requires %s",
		e.Column, e.Dataset, e.Actual, strings.Join(want, " or "))
}

// InsufficientDataError indicates a statistically underpowered input, such as
// too few distinct time points for a trend.
type InsufficientDataError struct {
	Dataset  string
	Reason   string
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("dataset %q: %s (need %d, have %d)", e.Dataset, e.Reason, e.Required, e.Actual)
}
