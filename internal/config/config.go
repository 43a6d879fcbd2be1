// Package config loads YAML chart specs for the command line tool.
//
// A chart spec declares one or more in-memory tables (fields, relations and
// rows, inline or from a JSON file) and the chart to render from one of
// them:
//
//	tables:
//	  - name: continents
//	    fields:
//	      - {name: name, type: CHAR}
//	    rows:
//	      - {id: 1, name: Europe}
//	  - name: countries
//	    fields:
//	      - {name: name, type: CHAR}
//	      - {name: continent, attname: continent_id, type: FOREIGN_KEY}
//	      - {name: population, type: BIGINT}
//	    relations: {continent: continents}
//	    data: countries.json
//	chart:
//	  table: countries
//	  values: [name, continent__name, population]
//	  labels: {population: Population}
//	  masks: {population: "{v:,d}"}
//	  format: json
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/table"
)

// Output formats understood by the render command
const (
	FormatJSON     = "json"
	FormatResponse = "response"
	FormatCSV      = "csv"
	FormatTSV      = "tsv"
	FormatHTML     = "html"
	FormatJS       = "js"
)

var formats = []string{FormatJSON, FormatResponse, FormatCSV, FormatTSV, FormatHTML, FormatJS}

// File is a parsed chart spec
type File struct {
	Tables []TableSpec `yaml:"tables"`
	Chart  ChartSpec   `yaml:"chart"`

	// baseDir resolves relative data paths
	baseDir string
}

// TableSpec declares one in-memory table
type TableSpec struct {
	Name   string         `yaml:"name"`
	Fields []schema.Field `yaml:"fields"`
	// Relations maps a FOREIGN_KEY field to the name of the table it points at
	Relations map[string]string `yaml:"relations"`
	// Data is a JSON file holding an array of row objects
	Data string           `yaml:"data"`
	Rows []map[string]any `yaml:"rows"`
}

// AggregateSpec declares an annotation on the charted table
type AggregateSpec struct {
	Func  string `yaml:"func"`
	Field string `yaml:"field"`
	Alias string `yaml:"alias"`
}

// ExtraSpec declares a computed column. Template is expanded per row,
// replacing {field} with the row's value for field.
type ExtraSpec struct {
	Name     string         `yaml:"name"`
	Type     table.WireType `yaml:"type"`
	Label    string         `yaml:"label"`
	Template string         `yaml:"template"`
}

// ChartSpec selects what to render and how
type ChartSpec struct {
	Table            string                    `yaml:"table"`
	Values           []string                  `yaml:"values"`
	Annotate         []AggregateSpec           `yaml:"annotate"`
	Extra            []ExtraSpec               `yaml:"extra"`
	Labels           map[string]string         `yaml:"labels"`
	Order            []string                  `yaml:"order"`
	Properties       map[string]any            `yaml:"properties"`
	ColumnProperties map[string]map[string]any `yaml:"column_properties"`
	Masks            map[string]string         `yaml:"masks"`

	Format    string `yaml:"format"`
	Separator string `yaml:"separator"` // csv only, single character
	Name      string `yaml:"name"`      // js variable name
	ReqID     string `yaml:"req_id"`
	Handler   string `yaml:"handler"`
	Bare      bool   `yaml:"bare"`
}

// Load reads and validates the chart spec at path
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart spec: %w", err)
	}
	f, err := Parse(bytes.NewReader(raw), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a chart spec. Relative data paths are resolved
// against baseDir.
func Parse(r io.Reader, baseDir string) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode chart spec: %w", err)
	}
	f.baseDir = baseDir
	if f.Chart.Format == "" {
		f.Chart.Format = FormatJSON
	}
	if f.Chart.Name == "" {
		f.Chart.Name = "data"
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every structural problem of the chart file at once
func (f *File) Validate() error {
	var errs error
	names := make(map[string]bool, len(f.Tables))

	if len(f.Tables) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("no tables declared"))
	}
	for i, t := range f.Tables {
		if t.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("tables[%d]: missing name", i))
			continue
		}
		if names[t.Name] {
			errs = multierr.Append(errs, fmt.Errorf("table %s: declared twice", t.Name))
		}
		names[t.Name] = true
		for _, fd := range t.Fields {
			if _, err := table.MapFieldType(fd.Type); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("table %s: field %s: %w", t.Name, fd.Name, err))
			}
		}
		if t.Data != "" && len(t.Rows) > 0 {
			errs = multierr.Append(errs, fmt.Errorf("table %s: data and rows are exclusive", t.Name))
		}
	}
	for _, t := range f.Tables {
		for owner, target := range t.Relations {
			if !names[target] {
				errs = multierr.Append(errs, fmt.Errorf("table %s: relation %s: unknown table %q", t.Name, owner, target))
			}
		}
	}

	c := f.Chart
	if !names[c.Table] {
		errs = multierr.Append(errs, fmt.Errorf("chart: unknown table %q", c.Table))
	}
	if !slices.Contains(formats, c.Format) {
		errs = multierr.Append(errs, fmt.Errorf("chart: format %q not one of %s", c.Format, strings.Join(formats, ", ")))
	}
	if len([]rune(c.Separator)) > 1 {
		errs = multierr.Append(errs, fmt.Errorf("chart: separator %q must be a single character", c.Separator))
	}
	for _, e := range c.Extra {
		if e.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("chart: extra column without name"))
		}
	}
	for _, a := range c.Annotate {
		if _, err := parseAggFunc(a.Func); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("chart: annotate %s: %w", a.Field, err))
		}
	}
	return errs
}

// SeparatorRune returns the CSV separator, 0 for the default
func (c ChartSpec) SeparatorRune() rune {
	for _, r := range c.Separator {
		return r
	}
	return 0
}

func (f *File) dataPath(p string) string {
	if filepath.IsAbs(p) || f.baseDir == "" {
		return p
	}
	return filepath.Join(f.baseDir, p)
}
