// Package resolve builds table descriptions from a row source schema.
//
// Columns are resolved in priority order: aggregates, extras, local fields,
// then joined fields ("owner__related"). A key resolved by an earlier step is
// not considered again. Requested keys matching nothing are dropped with a
// single warning instead of failing the table.
package resolve

import (
	stderrors "errors"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/logging"
	"github.com/leengari/gcharts/internal/table"
)

// ExtraFieldSpec is the caller-supplied type and label of an extra column
type ExtraFieldSpec struct {
	Type  table.WireType `yaml:"type" json:"type"`
	Label string         `yaml:"label" json:"label"`
}

// Options are the caller overrides applied during resolution
type Options struct {
	Labels           map[string]string
	ColumnProperties map[string]map[string]any
	ExtraFieldSpecs  map[string]ExtraFieldSpec
	// Logger receives the dropped-column warning; defaults to the
	// process diagnostics sink
	Logger *slog.Logger
}

// resolver carries the state of one Resolve call
type resolver struct {
	src      schema.LocalSchema
	opts     Options
	columns  []table.Column
	resolved map[string]bool
}

// Resolve produces the ordered table description for the requested keys.
// An empty requested list means every local field.
func Resolve(src schema.LocalSchema, requested []string, opts Options) (*table.Description, error) {
	if len(requested) == 0 {
		requested = schema.FieldNames(src)
	}

	r := &resolver{
		src:      src,
		opts:     opts,
		resolved: make(map[string]bool),
	}

	// 1. Aggregates
	if err := r.resolveAggregates(); err != nil {
		return nil, err
	}

	// 2. Extra fields
	if err := r.resolveExtras(); err != nil {
		return nil, err
	}

	// 3 + 4. Local fields, then joined fields, in requested order
	var dropped []string
	for _, key := range requested {
		if r.resolved[key] {
			continue
		}
		ok, err := r.resolveLocal(key)
		if err != nil {
			return nil, err
		}
		if ok {
			continue
		}
		ok, err = r.resolveJoined(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			dropped = append(dropped, key)
		}
	}

	// 5. Unresolvable columns are reported, not fatal
	if len(dropped) > 0 {
		logger := opts.Logger
		if logger == nil {
			logger = logging.Diagnostics()
		}
		logger.Warn("dropping unresolvable columns",
			slog.String("columns", strings.Join(dropped, ", ")),
			slog.Int("count", len(dropped)),
		)
	}

	return table.NewDescription(r.columns, dropped), nil
}

func (r *resolver) add(key string, wt table.WireType, label string) {
	if label == "" {
		label = key
	}
	r.columns = append(r.columns, table.Column{
		Key:        key,
		Type:       wt,
		Label:      label,
		Properties: r.opts.ColumnProperties[key],
	})
	r.resolved[key] = true
}

func (r *resolver) resolveAggregates() error {
	agg, ok := r.src.(schema.AggregatingSchema)
	if !ok {
		return nil
	}
	for _, spec := range agg.Aggregates() {
		if r.resolved[spec.Alias] {
			continue
		}
		wt, err := table.MapFieldType(spec.Type)
		if err != nil {
			return withField(err, spec.Alias)
		}
		r.add(spec.Alias, wt, r.opts.Labels[spec.Alias])
	}
	return nil
}

func (r *resolver) resolveExtras() error {
	extra, ok := r.src.(schema.ExtraFieldSchema)
	if !ok {
		return nil
	}
	var errs error
	for _, key := range extra.ExtraFields() {
		if r.resolved[key] {
			continue
		}
		spec, ok := r.opts.ExtraFieldSpecs[key]
		if !ok {
			errs = multierr.Append(errs, errors.NewMissingExtraFieldSpec(key))
			continue
		}
		if !spec.Type.Valid() {
			errs = multierr.Append(errs, errors.NewMalformedExtraFieldSpec(key, string(spec.Type)))
			continue
		}
		r.add(key, spec.Type, spec.Label)
	}
	return errs
}

func (r *resolver) resolveLocal(key string) (bool, error) {
	field, ok := schema.FieldByKey(r.src, key)
	if !ok {
		return false, nil
	}
	if r.resolved[field.Name] {
		// requested once by logical and once by storage name
		return true, nil
	}
	wt, err := table.MapFieldType(field.Type)
	if err != nil {
		return false, withField(err, field.Name)
	}

	// storage-attribute overrides are re-keyed to the logical name
	label, ok := r.opts.Labels[field.Name]
	if !ok {
		label = r.opts.Labels[field.AttributeName()]
	}
	r.add(field.Name, wt, label)
	return true, nil
}

func (r *resolver) resolveJoined(key string) (bool, error) {
	current := r.src
	rest := key
	for {
		owner, related, ok := data.SplitQualified(rest)
		if !ok || owner == "" || related == "" {
			return false, nil
		}
		joinable, ok := current.(schema.JoinableSchema)
		if !ok {
			return false, nil
		}
		target, ok := joinable.Related(owner)
		if !ok {
			return false, nil
		}

		// the remainder may itself be another hop
		if field, ok := schema.FieldByKey(target, related); ok {
			wt, err := table.MapFieldType(field.Type)
			if err != nil {
				return false, withField(err, key)
			}
			r.add(key, wt, r.opts.Labels[key])
			return true, nil
		}
		current, rest = target, related
	}
}

func withField(err error, field string) error {
	var ut *errors.UnknownFieldTypeError
	if stderrors.As(err, &ut) {
		return &errors.UnknownFieldTypeError{Field: field, Type: ut.Type}
	}
	return err
}
