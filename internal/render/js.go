package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leengari/gcharts/internal/table"
)

// JavaScript encodes the model as source code building a DataTable named
// name. The name is inserted verbatim.
func JavaScript(m *table.Model, name string, opts Options) (string, error) {
	p, err := prepare(m, opts)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "var %s = new google.visualization.DataTable();\n", name)

	if len(p.props) > 0 {
		props, err := json.Marshal(p.props)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s.setTableProperties(%s);\n", name, props)
	}

	for j, col := range p.cols {
		typ, _ := json.Marshal(string(col.Type))
		label, _ := json.Marshal(col.Label)
		id, _ := json.Marshal(col.Key)
		fmt.Fprintf(&sb, "%s.addColumn(%s, %s, %s);\n", name, typ, label, id)
		if len(col.Properties) > 0 {
			props, err := json.Marshal(col.Properties)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "%s.setColumnProperties(%d, %s);\n", name, j, props)
		}
	}

	fmt.Fprintf(&sb, "%s.addRows(%d);\n", name, len(p.rows))

	for i, cells := range p.rows {
		for j, c := range cells {
			if c == nil {
				continue
			}
			v, err := jsLiteral(c.v, c.wt)
			if err != nil {
				return "", err
			}
			if c.f == nil && len(c.p) == 0 {
				fmt.Fprintf(&sb, "%s.setCell(%d, %d, %s);\n", name, i, j, v)
				continue
			}

			f := "null"
			if c.f != nil {
				b, _ := json.Marshal(*c.f)
				f = string(b)
			}
			cp := ""
			if len(c.p) > 0 {
				b, err := json.Marshal(c.p)
				if err != nil {
					return "", err
				}
				cp = ", " + string(b)
			}
			fmt.Fprintf(&sb, "%s.setCell(%d, %d, %s, %s%s);\n", name, i, j, v, f, cp)
		}
	}

	return sb.String(), nil
}
