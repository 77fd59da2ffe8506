package simulate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/review"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := NewDriver(review.DefaultParams(), nil)
	require.NoError(t, err)
	return d
}

func TestRunRoundTrip(t *testing.T) {
	d := newTestDriver(t)
	answers := RandomAnswers(NewSource(42), 20, 12)

	h, err := d.Run(start, answers)
	require.NoError(t, err)
	require.Len(t, h.Records, len(answers))

	_, err = ulid.Parse(h.ID)
	assert.NoError(t, err, "history ID should be a ULID")
	assert.Equal(t, start, h.Start)
	assert.Equal(t, 0, h.Initial.Total)

	for i, rec := range h.Records {
		assert.Equal(t, i, rec.I)
		assert.Equal(t, i+1, rec.Card.Total)
		assert.Equal(t, answers[i], rec.Answer)

		prev := h.Previous(i)
		wantNow := prev.Card.DueDate.Add(review.DefaultParams().Duration(answers[i].LateDays))
		assert.True(t, rec.Now.Equal(wantNow), "record %d answered at %v, want %v", i, rec.Now, wantNow)
		assert.InDelta(t, answers[i].LateDays, rec.DaysOverdue, 1e-6)
		assert.True(t, rec.Card.LastAnswer.Equal(rec.Now))
		assert.Equal(t, review.Classify(rec.RChance), rec.Freshness)
		if i > 0 {
			assert.Greater(t, rec.TotalDays, h.Records[i-1].TotalDays-1e-9)
		}
	}
}

func TestRunMatchesDirectScheduling(t *testing.T) {
	d := newTestDriver(t)
	answers := []domain.Answer{
		{Quality: review.Easy, Speed: review.Fast},
		{Quality: review.Hard, Speed: review.Slow, LateDays: 2},
		{Quality: review.Forgot, Speed: review.CouldNotRecall, LateDays: 5},
	}

	h, err := d.Run(start, answers)
	require.NoError(t, err)

	p := review.DefaultParams()
	card := p.NewCard(start)
	for i, a := range answers {
		res, err := p.Next(card, a.Quality, a.Speed, card.DueDate.Add(p.Duration(a.LateDays)))
		require.NoError(t, err)
		assert.Equal(t, res.Card, h.Records[i].Card)
		assert.Equal(t, res.RChance, h.Records[i].RChance)
		card = res.Card
	}

	first := h.Records[0]
	assert.InDelta(t, 2.17, first.Card.EFactor, 1e-4)
	assert.Equal(t, review.LowMemory, first.Freshness)
	assert.Equal(t, 0, h.Records[2].Card.Repetitions)
}

func TestRunIsReproducibleWithSameSeed(t *testing.T) {
	d := newTestDriver(t)

	a, err := d.Run(start, RandomAnswers(NewSource(9), 15, 12))
	require.NoError(t, err)
	b, err := d.Run(start, RandomAnswers(NewSource(9), 15, 12))
	require.NoError(t, err)

	assert.Equal(t, a.Records, b.Records)
	assert.NotEqual(t, a.ID, b.ID, "each run gets its own ID")
}

func TestRunRejectsInvalidAnswers(t *testing.T) {
	d := newTestDriver(t)

	testCases := []struct {
		name   string
		answer domain.Answer
		want   error
	}{
		{"zero quality", domain.Answer{Quality: 0, Speed: review.Fast}, review.ErrInvalidQuality},
		{"unknown speed", domain.Answer{Quality: review.Easy, Speed: review.Speed(8)}, review.ErrInvalidSpeed},
		{"negative late days", domain.Answer{Quality: review.Hard, Speed: review.Fast, LateDays: -1}, ErrInvalidAnswer},
		{"late days past the bound", domain.Answer{Quality: review.Easy, Speed: review.Fast, LateDays: 200000}, ErrInvalidAnswer},
		{"infinite late days", domain.Answer{Quality: review.Easy, Speed: review.Fast, LateDays: math.Inf(1)}, ErrInvalidAnswer},
		{"NaN late days", domain.Answer{Quality: review.Easy, Speed: review.Fast, LateDays: math.NaN()}, ErrInvalidAnswer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			answers := []domain.Answer{{Quality: review.Easy, Speed: review.Fast}, tc.answer}
			h, err := d.Run(start, answers)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, errors.Is(err, review.ErrInvalidReview), "got %v", err)
			assert.Contains(t, err.Error(), "answer 1")
			assert.Empty(t, h.Records, "nothing is scheduled when validation fails")
		})
	}
}

func TestRunLateDaysAtBound(t *testing.T) {
	d := newTestDriver(t)
	answers := []domain.Answer{
		{Quality: review.Easy, Speed: review.Fast, LateDays: domain.MaxLateDays},
		{Quality: review.Hard, Speed: review.Slow, LateDays: domain.MaxLateDays},
		{Quality: review.Forgot, Speed: review.Fast, LateDays: domain.MaxLateDays},
	}

	h, err := d.Run(start, answers)
	require.NoError(t, err)
	require.Len(t, h.Records, 3)
	for i, rec := range h.Records {
		assert.InDelta(t, float64(domain.MaxLateDays), rec.DaysOverdue, 1e-6)
		assert.False(t, rec.Card.DueDate.Before(rec.Now), "record %d due before it was answered", i)
	}
	assert.Greater(t, h.Records[2].TotalDays, 3.0*domain.MaxLateDays)
}

func TestRunBeforeUnixEpoch(t *testing.T) {
	d := newTestDriver(t)
	early := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)

	var (
		h   domain.History
		err error
	)
	require.NotPanics(t, func() {
		h, err = d.Run(early, []domain.Answer{{Quality: review.Easy, Speed: review.Fast}})
	})
	require.NoError(t, err)
	require.Len(t, h.Records, 1)
	assert.Equal(t, early, h.Start)
	assert.True(t, h.Records[0].Now.Equal(early))

	_, err = ulid.Parse(h.ID)
	assert.NoError(t, err)
}

func TestNewDriverRejectsInvalidParams(t *testing.T) {
	p := review.DefaultParams()
	p.MaxEFactor = 1
	_, err := NewDriver(p, nil)
	assert.ErrorIs(t, err, review.ErrInvalidParams)
}

func TestRandomAnswers(t *testing.T) {
	answers := RandomAnswers(NewSource(1), 500, 12)
	require.Len(t, answers, 500)

	seenQuality := map[review.Quality]bool{}
	seenSpeed := map[review.Speed]bool{}
	for _, a := range answers {
		assert.True(t, a.Quality.IsValid())
		assert.True(t, a.Speed.IsValid())
		assert.GreaterOrEqual(t, a.LateDays, 0.0)
		assert.Less(t, a.LateDays, 12.0)
		assert.Equal(t, float64(int(a.LateDays)), a.LateDays)
		seenQuality[a.Quality] = true
		seenSpeed[a.Speed] = true
	}
	assert.Len(t, seenQuality, len(review.Qualities))
	assert.Len(t, seenSpeed, len(review.Speeds))

	for _, a := range RandomAnswers(NewSource(1), 10, 0) {
		assert.Zero(t, a.LateDays)
	}
}

type fixedSource struct{ values []int }

func (f *fixedSource) Intn(n int) int {
	v := f.values[0] % n
	f.values = f.values[1:]
	return v
}

func TestRandomAnswersUsesInjectedSource(t *testing.T) {
	src := &fixedSource{values: []int{2, 1, 3, 0, 5, 0}}
	answers := RandomAnswers(src, 2, 12)

	assert.Equal(t, []domain.Answer{
		{Quality: review.Easy, Speed: review.Fast, LateDays: 3},
		{Quality: review.Forgot, Speed: review.CouldNotRecall, LateDays: 0},
	}, answers)
}
