package analytics

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Suggestion is a transient recommendation: an operation, the columns it
// would use, and why. Never stored; recomputed fresh on every call so a
// suggestion can never reference a dropped column.
type Suggestion struct {
	Operation string   `json:"operation"`
	Columns   []string `json:"columns,omitempty"`
	Rationale string   `json:"rationale"`
	Score     int      `json:"score"`
}

// prerequisite is one row of the operation table: the roles an operation
// needs and the minimum column count per role. Operations with unmet
// prerequisites are omitted from suggestions entirely, not down-ranked.
type prerequisite struct {
	operation string
	needs     map[schema.Role]int
	rationale string
}

var operationTable = []prerequisite{
	{
		operation: "find_correlations",
		needs:     map[schema.Role]int{schema.RoleNumerical: 2},
		rationale: "multiple numerical columns allow pairwise correlation",
	},
	{
		operation: "segment_by_column",
		needs:     map[schema.Role]int{schema.RoleCategorical: 1, schema.RoleNumerical: 1},
		rationale: "categorical columns define groups with numerical metrics to aggregate",
	},
	{
		operation: "time_series_analysis",
		needs:     map[schema.Role]int{schema.RoleTemporal: 1, schema.RoleNumerical: 1},
		rationale: "temporal and numerical columns allow trend and seasonality analysis",
	},
	{
		operation: "detect_outliers",
		needs:     map[schema.Role]int{schema.RoleNumerical: 1},
		rationale: "numerical columns can be screened for outliers",
	},
	{
		operation: "analyze_distributions",
		needs:     map[schema.Role]int{}, // any column qualifies
		rationale: "every column has a distribution worth inspecting",
	},
	{
		operation: "calculate_feature_importance",
		needs:     map[schema.Role]int{schema.RoleNumerical: 2},
		rationale: "one numerical column can serve as target for the others",
	},
	{
		operation: "validate_data_quality",
		needs:     map[schema.Role]int{},
		rationale: "quality assessment applies to any dataset",
	},
}

// Suggester produces a ranked, finite list of applicable operations for a
// dataset. It reads the registry; it never mutates it.
type Suggester struct {
	ops *Operations
}

func NewSuggester(ops *Operations) *Suggester { return &Suggester{ops: ops} }

// Suggest returns applicable operations ranked by eligible-column count.
// A low-confidence schema (empty dataset) disables column-heavy suggestions
// entirely.
func (s *Suggester) Suggest(datasetName string) ([]Suggestion, error) {
	e, err := s.ops.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	sch := e.Schema
	if sch.LowConfidence {
		return nil, nil
	}

	counts := make(map[schema.Role][]string)
	for _, c := range sch.Columns {
		counts[c.Role] = append(counts[c.Role], c.Name)
	}

	var out []Suggestion
	for _, p := range operationTable {
		eligible := []string{}
		met := true
		for role, min := range p.needs {
			cols := counts[role]
			if len(cols) < min {
				met = false
				break
			}
			eligible = append(eligible, cols...)
		}
		if !met {
			continue
		}
		score := len(eligible)
		rationale := fmt.Sprintf("%s (%d eligible columns)", p.rationale, score)
		if len(p.needs) == 0 {
			score = 1 // catch-all operations rank below targeted ones
			eligible = nil
			rationale = p.rationale
		}
		sort.Strings(eligible)
		out = append(out, Suggestion{
			Operation: p.operation,
			Columns:   eligible,
			Rationale: rationale,
			Score:     score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Operation < out[j].Operation
		}
		return out[i].Score > out[j].Score
	})
	return out, nil
}
