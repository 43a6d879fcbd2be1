package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/leengari/gcharts/internal/table"
)

// A display mask is a template such as "{v} millions", "{v:.3f}" or
// "{v:,d} Kg". Inside the braces "," groups thousands, ".N" fixes the number
// of decimals and a trailing "d" rounds to an integer. Masks only produce the
// formatted value; the cell value is never changed.
var placeholder = regexp.MustCompile(`\{v(?::(,)?(?:\.(\d+))?([df])?)?\}`)

type mask struct {
	template string
}

func compileMask(column, tmpl string) (*mask, error) {
	if !placeholder.MatchString(tmpl) {
		return nil, fmt.Errorf("display mask for %q has no {v} placeholder: %q", column, tmpl)
	}
	return &mask{template: tmpl}, nil
}

// apply formats an already coerced value
func (m *mask) apply(v any, wt table.WireType) string {
	return placeholder.ReplaceAllStringFunc(m.template, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		if wt != table.WireNumber {
			return text(v, wt)
		}
		group := sub[1] == ","
		prec := -1
		if sub[2] != "" {
			prec, _ = strconv.Atoi(sub[2])
		}
		if sub[3] == "d" {
			prec = 0
		}
		return formatNumber(v, group, prec)
	})
}

// formatNumber keeps integers exact unless decimals are asked for
func formatNumber(v any, group bool, prec int) string {
	switch n := v.(type) {
	case int64:
		if prec > 0 {
			return formatFloat(float64(n), group, prec)
		}
		if group {
			return humanize.Comma(n)
		}
		return strconv.FormatInt(n, 10)
	case uint64:
		if prec > 0 {
			return formatFloat(float64(n), group, prec)
		}
		if group && n <= math.MaxInt64 {
			return humanize.Comma(int64(n))
		}
		return strconv.FormatUint(n, 10)
	}

	f, ok := asFloat(v)
	if !ok {
		return toString(v)
	}
	return formatFloat(f, group, prec)
}

func formatFloat(f float64, group bool, prec int) string {
	if !group {
		return strconv.FormatFloat(f, 'f', prec, 64)
	}
	if prec < 0 {
		return humanize.Commaf(f)
	}
	return groupedFixed(f, prec)
}

// groupedFixed renders f with prec decimals and grouped thousands
func groupedFixed(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	out := humanize.Comma(n)
	if frac != "" {
		out += "." + frac
	}
	return sign + out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case fmt.Stringer:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	return 0, false
}
