package migrations

import (
	"fmt"
	"sort"

	"invoicer/internal/invoice/schemas"
)

// Step upgrades a document by exactly one schema version.
type Step struct {
	From int
	To   int

	// Migrate returns a new document; it must not modify raw. Notes describe
	// input values that had to be dropped because their type did not match
	// the source schema.
	Migrate func(raw schemas.Raw) (out schemas.Raw, notes []string, err error)

	// Describe lists the user-facing changes the step will make to raw.
	Describe func(raw schemas.Raw) []string
}

// NewStep adapts a typed migrator to a Step.
//
// The adapter decodes the source variant leniently, runs migrate and encodes
// the result. Fields that keep their name and type across the step are then
// copied from raw as they are, so nested data such as extra keys inside line
// items survives; mistyped values are the exception and stay zeroed. Every key
// the source schema does not know about is carried over as well. Such a key
// only replaces a field the step added when the step left that field as an
// empty string. Keys that the source schema declares but the target drops are
// not carried.
func NewStep[In, Out schemas.Document](migrate func(In) Out, describe func(schemas.Raw) []string) Step {
	var in In
	var out Out
	unchanged := schemas.SharedFields(in, out)

	return Step{
		From: in.Version(),
		To:   out.Version(),
		Migrate: func(raw schemas.Raw) (schemas.Raw, []string, error) {
			src, lost, err := schemas.Decode[In](raw)
			if err != nil {
				return nil, nil, err
			}

			var notes []string
			for _, mismatch := range lost {
				notes = append(notes, fmt.Sprintf("v%d %s", src.Version(), schemas.Mismatch(mismatch)))
			}

			encoded, err := schemas.Encode(migrate(src))
			if err != nil {
				return nil, nil, err
			}

			dropped := schemas.LostFields(lost)
			for _, key := range unchanged {
				value, ok := raw[key]
				if _, bad := dropped[key]; !ok || bad || value == nil {
					continue
				}
				encoded[key] = value
			}

			for key, value := range schemas.Unknown(raw, src) {
				current, taken := encoded[key]
				if !taken || (current == "" && isNonEmptyString(value)) {
					encoded[key] = value
				}
			}
			return encoded, notes, nil
		},
		Describe: describe,
	}
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// Registry maps a source version to the step that upgrades it.
type Registry struct {
	steps map[int]Step
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[int]Step)}
}

// DefaultRegistry returns a registry holding every shipped migration.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewStep(MigrateV1ToV2, describeV1ToV2))
	r.MustRegister(NewStep(MigrateV2ToV3, describeV2ToV3))
	return r
}

// Register adds a step. Each source version may have one step only.
func (r *Registry) Register(step Step) error {
	if step.To != step.From+1 {
		return NewMigrationError("Register", step.From, step.To, ErrInvalidStep)
	}
	if step.Migrate == nil {
		return NewMigrationError("Register", step.From, step.To, fmt.Errorf("step has no migrate function"))
	}
	if _, exists := r.steps[step.From]; exists {
		return NewMigrationError("Register", step.From, step.To, ErrDuplicateMigrator)
	}
	if step.Describe == nil {
		step.Describe = func(schemas.Raw) []string {
			return []string{fmt.Sprintf("Upgrade document from v%d to v%d", step.From, step.To)}
		}
	}

	r.steps[step.From] = step
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(step Step) {
	if err := r.Register(step); err != nil {
		panic(err)
	}
}

// Lookup returns the step upgrading from version.
func (r *Registry) Lookup(version int) (Step, bool) {
	step, ok := r.steps[version]
	return step, ok
}

// Versions returns the registered source versions in ascending order.
func (r *Registry) Versions() []int {
	versions := make([]int, 0, len(r.steps))
	for v := range r.steps {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}
