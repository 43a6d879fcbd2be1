// Package demo seeds the demo tables and defines the demo charts: a geo
// chart of countries, aggregated area and pie series, and a table chart.
// The data is random and by no means correct.
package demo

import (
	"math/rand/v2"
	"time"

	"github.com/leengari/gcharts/gcharts"
	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/rowsource/memory"
)

var countries = [][2]string{
	{"AR", "Argentina"}, {"AU", "Australia"}, {"BR", "Brazil"},
	{"CA", "Canada"}, {"CN", "China"}, {"DE", "Germany"},
	{"EG", "Egypt"}, {"ES", "Spain"}, {"FR", "France"},
	{"GB", "United Kingdom"}, {"IN", "India"}, {"IT", "Italy"},
	{"JP", "Japan"}, {"KE", "Kenya"}, {"MX", "Mexico"},
	{"NG", "Nigeria"}, {"NO", "Norway"}, {"PE", "Peru"},
	{"PL", "Poland"}, {"RU", "Russia"}, {"SE", "Sweden"},
	{"TZ", "Tanzania"}, {"US", "United States"}, {"ZA", "South Africa"},
}

var names = []string{"Igor", "Vimes", "Carrot", "Nobby", "Colon", "Angua"}

// Tables holds the seeded demo tables
type Tables struct {
	GeoData   *memory.Table
	OtherData *memory.Table
}

// NewTables creates the empty demo tables
func NewTables() *Tables {
	return &Tables{
		GeoData: memory.NewTable("geodata",
			schema.Field{Name: "country_name", Type: schema.FieldTypeChar},
			schema.Field{Name: "country_code", Type: schema.FieldTypeChar},
			schema.Field{Name: "population", Type: schema.FieldTypePositiveInt},
			schema.Field{Name: "fertility_rate", Type: schema.FieldTypeFloat},
		),
		OtherData: memory.NewTable("otherdata",
			schema.Field{Name: "name", Type: schema.FieldTypeChar},
			schema.Field{Name: "number1", Type: schema.FieldTypeInt},
			schema.Field{Name: "number2", Type: schema.FieldTypeInt},
			schema.Field{Name: "date", Type: schema.FieldTypeDate},
		),
	}
}

// Seed fills the tables with random data: one GeoData row per country and
// one OtherData row per name per day over the two years before today
func Seed(t *Tables, rng *rand.Rand, today time.Time) error {
	for _, c := range countries {
		err := t.GeoData.Insert(data.Row{
			"country_name":   c[1],
			"country_code":   c[0],
			"population":     int64(rng.IntN(1000) + 1),
			"fertility_rate": 0.7 + rng.Float64()*6.5,
		})
		if err != nil {
			return err
		}
	}

	today = day(today)
	for d := today.AddDate(-2, 0, 0); d.Before(today); d = d.AddDate(0, 0, 1) {
		for _, n := range names {
			err := t.OtherData.Insert(data.Row{
				"name":    n,
				"number1": int64(rng.IntN(91) + 10),
				"number2": int64(rng.IntN(91) + 10),
				"date":    d,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Chart is one demo chart: a query and how to label and format it
type Chart struct {
	Name    string
	Query   *memory.Query
	Options gcharts.Options
}

// Charts returns the demo charts over seeded tables
func Charts(t *Tables, today time.Time) []Chart {
	today = day(today)
	since := func(d time.Time) func(data.Row) bool {
		return func(row data.Row) bool {
			v, ok := row["date"].(time.Time)
			return ok && !v.Before(d)
		}
	}

	return []Chart{
		{
			Name: "geo",
			Query: t.GeoData.Query().
				Values("country_name", "population", "fertility_rate").
				OrderBy("-population").
				Limit(100),
			Options: gcharts.Options{
				Labels: map[string]string{
					"country_name":   "Country",
					"population":     "Population",
					"fertility_rate": "Birth rate",
				},
				Masks: map[string]string{
					"population":     "{v:d} millions",
					"fertility_rate": "{v:.3f}",
				},
				Order: []string{"country_name", "population", "fertility_rate"},
			},
		},
		{
			Name: "area",
			Query: t.OtherData.Query().
				Filter(since(today.AddDate(0, -1, 0))).
				Values("date").
				Annotate(
					memory.Aggregate{Func: memory.Sum, Field: "number1"},
					memory.Aggregate{Func: memory.Sum, Field: "number2"},
				).
				OrderBy("-date"),
			Options: gcharts.Options{
				Labels: map[string]string{
					"number1__sum": "A number",
					"number2__sum": "Another number",
				},
				Order: []string{"date", "number1__sum", "number2__sum"},
			},
		},
		{
			Name: "pie",
			Query: t.OtherData.Query().
				Values("name").
				Annotate(memory.Aggregate{Func: memory.Sum, Field: "number1"}).
				OrderBy("name"),
			Options: gcharts.Options{
				Masks: map[string]string{"number1__sum": "{v:d} Sum total"},
				Order: []string{"name", "number1__sum"},
			},
		},
		{
			Name: "table",
			Query: t.OtherData.Query().
				Filter(since(today.AddDate(0, -3, 0))).
				Values("date").
				Annotate(
					memory.Aggregate{Func: memory.Sum, Field: "number1", Alias: "num_baked"},
					memory.Aggregate{Func: memory.Sum, Field: "number2", Alias: "num_eaten"},
				).
				OrderBy("-date"),
			Options: gcharts.Options{
				Labels: map[string]string{
					"date":      "Date",
					"num_baked": "Rat cakes baked",
					"num_eaten": "Rat cakes eaten",
				},
				Order: []string{"date", "num_baked", "num_eaten"},
				Masks: map[string]string{
					"num_baked": "{v:d} Kg",
					"num_eaten": "{v:d} Kg",
				},
			},
		},
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
