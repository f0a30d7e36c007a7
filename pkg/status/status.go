package status

// Outcome is the canonical classification of a raw job status string.
type Outcome string

const (
	Success      Outcome = "success"
	Failure      Outcome = "failure"
	Aborted      Outcome = "aborted"
	Pending      Outcome = "pending"
	Skipped      Outcome = "skipped"
	InfraFailure Outcome = "infra_failure"
)

// rawOutcomes holds the exact strings reported by the CI providers. Anything not listed
// here is treated as Pending.
var rawOutcomes = map[string]Outcome{
	"SUCCESS":             Success,
	"success":             Success,
	"FAILURE":             Failure,
	"failure":             Failure,
	"error":               Failure,
	"timed_out":           Failure,
	"ABORTED":             Aborted,
	"cancelled":           Aborted,
	"":                    Pending,
	"pending":             Pending,
	"skipped":             Skipped,
	"infrastructure_fail": InfraFailure,
}

// Classify maps a raw status to its canonical outcome. It is total: unrecognized values
// are Pending.
func Classify(raw string) Outcome {
	if o, ok := rawOutcomes[raw]; ok {
		return o
	}
	return Pending
}

// Recognized reports whether raw is one of the known status strings.
func Recognized(raw string) bool {
	_, ok := rawOutcomes[raw]
	return ok
}

// IsTerminal is true for outcomes that will not change on a later fetch.
func (o Outcome) IsTerminal() bool {
	return o != Pending
}

// severity orders outcomes for summarizing several results in one cell, worst first.
var severity = map[Outcome]int{
	Failure:      6,
	InfraFailure: 5,
	Pending:      4,
	Aborted:      3,
	Skipped:      2,
	Success:      1,
}

// Worse reports whether o should be displayed in preference to other.
func (o Outcome) Worse(other Outcome) bool {
	return severity[o] > severity[other]
}

// Glyph is how a single result is drawn in the grid.
type Glyph struct {
	Symbol   string `json:"symbol"`
	Color    string `json:"color,omitempty"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

var glyphs = map[Outcome]Glyph{
	Success:      {Symbol: "0", Color: "green", Label: "passed"},
	Skipped:      {Symbol: "S", Color: "gray", Label: "skipped"},
	Failure:      {Symbol: "X", Color: "red", Label: "failed"},
	Aborted:      {Symbol: ".", Color: "gray", Label: "cancelled"},
	Pending:      {Symbol: "?", Color: "goldenrod", Label: "in progress", Animated: true},
	InfraFailure: {Symbol: "X", Color: "grey", Label: "failed"},
}

// GlyphFor returns the icon for a raw status. Unknown statuses are shown verbatim.
func GlyphFor(raw string) Glyph {
	if !Recognized(raw) {
		return Glyph{Symbol: raw}
	}
	return glyphs[Classify(raw)]
}

// GlyphForOutcome returns the icon for an already classified outcome.
func GlyphForOutcome(o Outcome) Glyph {
	return glyphs[o]
}
