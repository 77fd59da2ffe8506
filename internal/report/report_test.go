package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/review"
	"github.com/conorfennell/knolsim/internal/simulate"
)

var start = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testHistory(t *testing.T) domain.History {
	t.Helper()
	d, err := simulate.NewDriver(review.DefaultParams(), nil)
	require.NoError(t, err)

	h, err := d.Run(start, []domain.Answer{
		{Quality: review.Easy, Speed: review.Fast},
		{Quality: review.Forgot, Speed: review.Slow, LateDays: 3},
		{Quality: review.Hard, Speed: review.Moderate, LateDays: 1},
	})
	require.NoError(t, err)
	return h
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, testHistory(t), Options{Plain: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"##0: Answer = EASY, Speed = FAST, memoryDays = 2.17, efactor = 2.17, reps = 1, freshness = LOW_MEMORY (0.48), daysLate = 0.00d",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "##1: Answer = FORGOT, Speed = SLOW,"), lines[1])
	assert.Contains(t, lines[1], "reps = 0")
	assert.Contains(t, lines[1], "daysLate = 3.00d")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestWriteListColoured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, testHistory(t), Options{}))
	assert.Contains(t, buf.String(), "EASY")
	assert.Contains(t, buf.String(), "Speed = FAST")
}

func TestWriteDetail(t *testing.T) {
	h := testHistory(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, h, 0, Options{Plain: true}))
	out := buf.String()
	assert.Contains(t, out, "Review #1\n")
	assert.Contains(t, out, "Memory Days → 0.00d → 2.17d")
	assert.Contains(t, out, "EFactor → 2.0500 → 2.1700")
	assert.Contains(t, out, "Reps → 0 → 1")
	assert.Contains(t, out, "Freshness → LOW_MEMORY → LOW_MEMORY")
	assert.Contains(t, out, "Retrievability → 0.0% → 47.6%")
	assert.Contains(t, out, "Total → 0 → 1")
	assert.Contains(t, out, "Date → Tue Jun 17 2025")

	buf.Reset()
	require.NoError(t, WriteDetail(&buf, h, 1, Options{Plain: true}))
	out = buf.String()
	assert.Contains(t, out, "Review #2\n")
	assert.Contains(t, out, "Reps → 1 → 0")
	assert.Contains(t, out, "Freshness → LOW_MEMORY → "+h.Records[1].Freshness.String())
	assert.Contains(t, out, "Overdue → 3.00d")
	assert.Contains(t, out, "Total → 1 → 2")
}

func TestWriteDetailOutOfRange(t *testing.T) {
	h := testHistory(t)
	for _, i := range []int{-1, len(h.Records)} {
		err := WriteDetail(&bytes.Buffer{}, h, i, Options{})
		assert.ErrorIs(t, err, ErrNoRecord)
	}
}

func TestWriteJSON(t *testing.T) {
	h := testHistory(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, h))
	assert.Contains(t, buf.String(), `"freshness": "LOW_MEMORY"`)
	assert.Contains(t, buf.String(), `"quality": "EASY"`)

	var decoded domain.History
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, h.ID, decoded.ID)
	require.Len(t, decoded.Records, len(h.Records))
	for i := range h.Records {
		assert.Equal(t, h.Records[i].Answer, decoded.Records[i].Answer)
		assert.Equal(t, h.Records[i].Freshness, decoded.Records[i].Freshness)
		assert.Equal(t, h.Records[i].Card.Total, decoded.Records[i].Card.Total)
	}
}
