package sqlsource

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
)

const baseAlias = "t0"

// plan is a built SELECT plus how to read its columns back
type plan struct {
	builder sq.SelectBuilder
	keys    []string                    // selected keys, in column order
	types   map[string]schema.FieldType // native type per key ("" for extras)
}

type planner struct {
	q       *Query
	columns []string
	groupBy []string
	joins   []string
	aliases map[string]string // relation path -> table alias
	plan    plan
}

func (q *Query) build(keys []string) (*plan, error) {
	p := &planner{
		q:       q,
		aliases: map[string]string{"": baseAlias},
		plan:    plan{types: make(map[string]schema.FieldType)},
	}

	aggs := make(map[string]Aggregate, len(q.aggregates))
	for _, a := range q.aggregates {
		aggs[a.Name()] = a
	}
	extras := make(map[string]Extra, len(q.extras))
	for _, e := range q.extras {
		extras[e.Name] = e
	}

	for _, key := range keys {
		if a, ok := aggs[key]; ok {
			if err := p.addAggregate(key, a); err != nil {
				return nil, err
			}
			continue
		}
		if e, ok := extras[key]; ok {
			p.add(key, "("+e.Expr+")", "", false)
			continue
		}
		if f, ok := schema.FieldByKey(q.model, key); ok {
			p.add(key, baseAlias+"."+f.AttributeName(), f.Type, true)
			continue
		}
		if _, _, ok := data.SplitQualified(key); ok {
			if err := p.addJoined(key); err != nil {
				return nil, err
			}
		}
		// anything else is left NULL; resolution already dropped it
	}

	if len(p.columns) == 0 {
		return nil, fmt.Errorf("query %s: no selectable columns", q.model.Table)
	}

	b := sq.Select(p.columns...).From(q.model.Table + " " + baseAlias)
	for _, j := range p.joins {
		b = b.LeftJoin(j)
	}
	for _, w := range q.where {
		b = b.Where(w)
	}
	if len(q.aggregates) > 0 && len(p.groupBy) > 0 {
		b = b.GroupBy(p.groupBy...)
	}
	if len(q.orderBy) > 0 {
		b = b.OrderBy(q.orderBy...)
	}
	if q.limit > 0 {
		b = b.Limit(q.limit)
	}

	p.plan.builder = b
	return &p.plan, nil
}

func (p *planner) add(key, expr string, ft schema.FieldType, groupable bool) {
	p.columns = append(p.columns, expr+" AS "+quoteIdent(key))
	p.plan.keys = append(p.plan.keys, key)
	p.plan.types[key] = ft
	if groupable {
		p.groupBy = append(p.groupBy, expr)
	}
}

func (p *planner) addAggregate(key string, a Aggregate) error {
	f, ok := schema.FieldByKey(p.q.model, a.Field)
	if !ok {
		return fmt.Errorf("aggregate %s: model %s has no field %q", key, p.q.model.Table, a.Field)
	}
	expr := fmt.Sprintf("%s(%s.%s)", a.Func, baseAlias, f.AttributeName())
	p.add(key, expr, p.q.aggregateType(a), false)
	return nil
}

// addJoined joins every hop of key and selects the final field
func (p *planner) addJoined(key string) error {
	model := p.q.model
	path := ""
	rest := key
	for {
		if f, ok := schema.FieldByKey(model, rest); ok {
			p.add(key, p.aliases[path]+"."+f.AttributeName(), f.Type, true)
			return nil
		}
		owner, related, ok := data.SplitQualified(rest)
		if !ok {
			return nil
		}
		target, ok := model.relation(owner)
		if !ok {
			return nil
		}
		ownerField, _ := schema.FieldByKey(model, owner)

		next := path + data.Qualify(owner, "")
		if _, joined := p.aliases[next]; !joined {
			alias := fmt.Sprintf("t%d", len(p.aliases))
			p.joins = append(p.joins, fmt.Sprintf("%s %s ON %s.%s = %s.%s",
				target.Table, alias, p.aliases[path], ownerField.AttributeName(), alias, target.PK))
			p.aliases[next] = alias
		}
		model, path, rest = target, next, related
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
