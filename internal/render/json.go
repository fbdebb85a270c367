package render

import (
	"encoding/json"
	"io"

	"github.com/peekknuf/eda/internal/profiler"
)

// JSON renders reports as JSON documents, one per call.
type JSON struct {
	indent bool
}

func NewJSON(indent bool) *JSON {
	return &JSON{indent: indent}
}

func (j *JSON) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if j.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func (j *JSON) Distribution(w io.Writer, rep *profiler.DistributionReport) error {
	return j.encode(w, rep)
}

func (j *JSON) Overview(w io.Writer, ov *profiler.ColumnOverview) error {
	return j.encode(w, ov)
}

func (j *JSON) MixedTypes(w io.Writer, f profiler.MixedTypeFinding) error {
	return j.encode(w, struct {
		profiler.MixedTypeFinding
		OK bool `json:"ok"`
	}{f, f.OK()})
}

func (j *JSON) Missing(w io.Writer, s profiler.MissingValueSummary) error {
	out := struct {
		profiler.MissingValueSummary
		Empty   bool   `json:"empty"`
		Message string `json:"message,omitempty"`
	}{MissingValueSummary: s, Empty: s.Empty()}
	if s.Empty() {
		out.Message = NoColumnsMessage
	}
	return j.encode(w, out)
}

func (j *JSON) ColumnMissing(w io.Writer, column string, pct float64) error {
	return j.encode(w, profiler.ColumnMissingShare{Column: column, Percent: pct})
}

func (j *JSON) Quality(w io.Writer, source string, q profiler.QualitySummary) error {
	return j.encode(w, struct {
		Source string `json:"source"`
		profiler.QualitySummary
		Grade string `json:"grade"`
	}{source, q, q.Grade()})
}

func (j *JSON) Describe(w io.Writer, source string, rows []profiler.ColumnDescription) error {
	return j.encode(w, struct {
		Source  string                       `json:"source"`
		Columns []profiler.ColumnDescription `json:"columns"`
	}{source, rows})
}
