package render

import (
	"encoding/json"

	"github.com/leengari/gcharts/internal/table"
)

// DefaultResponseHandler is the callback the chart library installs for
// data source responses
const DefaultResponseHandler = "google.visualization.Query.setResponse"

// ResponseVersion is the wire protocol version written into responses
const ResponseVersion = "0.6"

type jsonColumn struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Type  string         `json:"type"`
	P     map[string]any `json:"p,omitempty"`
}

type jsonCell struct {
	V any            `json:"v"`
	F *string        `json:"f,omitempty"`
	P map[string]any `json:"p,omitempty"`
}

type jsonRow struct {
	C []*jsonCell `json:"c"`
}

type jsonTable struct {
	Cols []jsonColumn   `json:"cols"`
	Rows []jsonRow      `json:"rows"`
	P    map[string]any `json:"p,omitempty"`
}

type jsonResponse struct {
	Version string          `json:"version"`
	ReqID   string          `json:"reqId"`
	Status  string          `json:"status"`
	Table   json.RawMessage `json:"table"`
}

// ResponseOptions configures JSONResponse
type ResponseOptions struct {
	Options
	// ReqID is echoed back to the requesting page
	ReqID string
	// Handler wraps the envelope as "Handler(envelope);" when non-empty.
	// It is inserted verbatim.
	Handler string
}

func toJSONTable(p *prepared) jsonTable {
	out := jsonTable{
		Cols: make([]jsonColumn, len(p.cols)),
		Rows: make([]jsonRow, len(p.rows)),
		P:    p.props,
	}
	for i, col := range p.cols {
		out.Cols[i] = jsonColumn{ID: col.Key, Label: col.Label, Type: string(col.Type), P: col.Properties}
	}
	for r, cells := range p.rows {
		row := jsonRow{C: make([]*jsonCell, len(cells))}
		for c, cl := range cells {
			if cl == nil {
				continue
			}
			row.C[c] = &jsonCell{V: jsonValue(cl.v, cl.wt), F: cl.f, P: cl.p}
		}
		out.Rows[r] = row
	}
	return out
}

// JSON encodes the model as a DataTable JSON object
func JSON(m *table.Model, opts Options) (string, error) {
	b, err := marshalTable(m, opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func marshalTable(m *table.Model, opts Options) ([]byte, error) {
	p, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(toJSONTable(p))
}

// JSONResponse encodes the model as a data source response envelope
func JSONResponse(m *table.Model, opts ResponseOptions) (string, error) {
	tbl, err := marshalTable(m, opts.Options)
	if err != nil {
		return "", err
	}

	reqID := opts.ReqID
	if reqID == "" {
		reqID = "0"
	}
	b, err := json.Marshal(jsonResponse{
		Version: ResponseVersion,
		ReqID:   reqID,
		Status:  "ok",
		Table:   tbl,
	})
	if err != nil {
		return "", err
	}

	if opts.Handler == "" {
		return string(b), nil
	}
	return opts.Handler + "(" + string(b) + ");", nil
}
