package pipeline

import (
	"fmt"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
)

// Validator checks an upload header against the input schema before any
// processing happens.
type Validator struct {
	Schema *schema.Schema
	// Strict turns unknown columns into a schema mismatch.
	Strict bool
}

func NewValidator(strict bool) *Validator {
	return &Validator{Schema: schema.Upload(), Strict: strict}
}

// Validate returns the warnings for a usable header, or a
// SchemaMismatchError when required columns are missing or, in strict mode,
// unknown columns are present.
func (v *Validator) Validate(columns []string) ([]string, error) {
	diff, err := v.Schema.Require(columns)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var unknown []string
	for _, c := range diff.Extra {
		if c == PredictedLoopQtyColumn || c == PredictedWCETColumn {
			warnings = append(warnings, fmt.Sprintf("column %q will be overwritten with new predictions", c))
			continue
		}
		unknown = append(unknown, c)
	}
	if len(unknown) == 0 {
		return warnings, nil
	}
	if v.Strict {
		return nil, &wcetErrors.SchemaMismatchError{
			Schema: v.Schema.ID(),
			Diff:   wcetErrors.SchemaDiff{Extra: unknown},
		}
	}
	for _, c := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown column %q is ignored", c))
	}
	return warnings, nil
}
