package render

import (
	"html"
	"strings"

	"github.com/leengari/gcharts/internal/table"
)

// HTML encodes the model as a single <table> element. Styling is left to the
// caller.
func HTML(m *table.Model, opts Options) (string, error) {
	p, err := prepare(m, opts)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<table><thead><tr>")
	for _, col := range p.cols {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(col.Label))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	for _, cells := range p.rows {
		sb.WriteString("<tr>")
		for _, c := range cells {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(c.display()))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</tbody></table>")
	return sb.String(), nil
}
