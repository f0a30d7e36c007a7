package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Outcome
	}{
		{raw: "SUCCESS", want: Success},
		{raw: "success", want: Success},
		{raw: "FAILURE", want: Failure},
		{raw: "failure", want: Failure},
		{raw: "error", want: Failure},
		{raw: "timed_out", want: Failure},
		{raw: "ABORTED", want: Aborted},
		{raw: "cancelled", want: Aborted},
		{raw: "", want: Pending},
		{raw: "pending", want: Pending},
		{raw: "skipped", want: Skipped},
		{raw: "infrastructure_fail", want: InfraFailure},
		{raw: "Success", want: Pending},
		{raw: "queued", want: Pending},
		{raw: "ERROR", want: Pending},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, Glyph{Symbol: "X", Color: "red", Label: "failed"}, GlyphFor("timed_out"))
	assert.Equal(t, Glyph{Symbol: "X", Color: "grey", Label: "failed"}, GlyphFor("infrastructure_fail"))
	assert.True(t, GlyphFor("").Animated)
	// unknown strings fall back to the raw text for display
	assert.Equal(t, Glyph{Symbol: "neutral"}, GlyphFor("neutral"))
}

func TestWorse(t *testing.T) {
	assert.True(t, Failure.Worse(Success))
	assert.True(t, Failure.Worse(InfraFailure))
	assert.True(t, Pending.Worse(Aborted))
	assert.False(t, Success.Worse(Skipped))
	assert.False(t, Success.Worse(Success))
}

func TestRecognized(t *testing.T) {
	assert.True(t, Recognized(""))
	assert.True(t, Recognized("cancelled"))
	assert.False(t, Recognized("neutral"))
}
