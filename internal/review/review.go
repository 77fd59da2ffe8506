// Package review computes the next review of a flashcard from its memory
// state and the learner's answer.
package review

import (
	"math"
	"time"
)

// CardState holds the memory state of a card.
// It is replaced, never mutated, by the result of a review.
type CardState struct {
	DueDate     time.Time `json:"due_date"`
	LastAnswer  time.Time `json:"last_answer"`
	MemoryDays  float64   `json:"memory_days"`
	EFactor     float64   `json:"efactor"`
	Repetitions int       `json:"repetitions"` // consecutive answers that were not forgotten
	Total       int       `json:"total"`
}

// Result is the outcome of a single review.
type Result struct {
	Card      CardState `json:"card"`
	RChance   float64   `json:"r_chance"` // estimated probability of recall
	Freshness Freshness `json:"freshness"`

	// DaysSinceLastReview is the time between the previous answer and this one.
	DaysSinceLastReview float64 `json:"days_since_last_review"`
	// DaysOverdue is how far past the previous due date the answer came; zero when on time.
	DaysOverdue float64 `json:"days_overdue"`
}

// NewCard returns the state of a card that has never been answered.
func (p Params) NewCard(now time.Time) CardState {
	return CardState{
		DueDate:    now,
		LastAnswer: now,
		EFactor:    p.MidEFactor(),
	}
}

// Next calculates the card's next state from an answer given at now.
// It returns a *ValidationError when the quality is unknown, the state is
// malformed or now is before the card's last answer.
func (p Params) Next(state CardState, quality Quality, speed Speed, now time.Time) (Result, error) {
	if !quality.IsValid() {
		return Result{}, invalid("quality", int(quality), ErrInvalidQuality)
	}
	if err := state.validate(); err != nil {
		return Result{}, err
	}
	if now.Before(state.LastAnswer) {
		return Result{}, invalid("now", now, ErrTimeReversed)
	}

	sinceLast := p.Days(now.Sub(state.LastAnswer))
	overdue := math.Max(0, p.Days(now.Sub(state.DueDate)))

	efactor := p.nextEFactor(state.EFactor, efactorDelta(quality, speed), overdue)
	memoryDays := math.Max(0, state.MemoryDays)
	repetitions := state.Repetitions

	decay := math.Exp(-sinceLast / (memoryDays + 1))
	if quality == Forgot {
		memoryDays = math.Max(p.MinMemoryDaysForgot, memoryDays*(1-p.ForgetDrop*decay))
		repetitions = 0
	} else {
		memoryDays = p.grow(memoryDays, efactor, decay, quality)
		repetitions++
	}

	dueDelta := math.Min(memoryDays, p.FirstDueInterval+float64(repetitions)*p.DueIntervalPerRepetition)

	rChance := p.Retrievability(memoryDays, efactor)
	return Result{
		Card: CardState{
			DueDate:     now.Add(p.Duration(dueDelta)),
			LastAnswer:  now,
			MemoryDays:  memoryDays,
			EFactor:     efactor,
			Repetitions: repetitions,
			Total:       state.Total + 1,
		},
		RChance:             rChance,
		Freshness:           Classify(rChance),
		DaysSinceLastReview: sinceLast,
		DaysOverdue:         overdue,
	}, nil
}

// validate rejects states no sequence of reviews can produce.
// Negative memory is tolerated and read as zero.
func (s CardState) validate() error {
	switch {
	case s.Repetitions < 0:
		return invalid("repetitions", s.Repetitions, ErrInvalidState)
	case s.Total < 0:
		return invalid("total", s.Total, ErrInvalidState)
	case math.IsNaN(s.MemoryDays) || math.IsInf(s.MemoryDays, 0):
		return invalid("memory_days", s.MemoryDays, ErrInvalidState)
	case math.IsNaN(s.EFactor) || math.IsInf(s.EFactor, 0):
		return invalid("efactor", s.EFactor, ErrInvalidState)
	}
	return nil
}

// Next schedules a review with DefaultParams.
func Next(state CardState, quality Quality, speed Speed, now time.Time) (Result, error) {
	return DefaultParams().Next(state, quality, speed, now)
}

// Preview returns the result of answering the card with each quality at the given speed.
func (p Params) Preview(state CardState, speed Speed, now time.Time) (map[Quality]Result, error) {
	out := make(map[Quality]Result, len(Qualities))
	for _, q := range Qualities {
		res, err := p.Next(state, q, speed, now)
		if err != nil {
			return nil, err
		}
		out[q] = res
	}
	return out, nil
}

// Retrievability blends long-run memory strength with the ease factor into a
// recall probability capped at 1. The ease part carries a fixed headroom, so it
// can exceed its share on its own.
func (p Params) Retrievability(memoryDays, efactor float64) float64 {
	efactorPortion := (efactor - p.MinEFactor + p.EFactorHeadroom) / p.efactorRange()
	logPortion := math.Log(memoryDays+1) / math.Log(p.MaxMemoryDaysLimit+1)
	return math.Min(1, p.LogWeight*logPortion+p.EFactorWeight*efactorPortion)
}

// nextEFactor erodes the ease factor by lateness, then applies the answer delta
// scaled by the remaining distance to the bound it moves towards.
func (p Params) nextEFactor(efactor, delta, overdueDays float64) float64 {
	efactor = math.Max(p.MinEFactor, efactor-overdueDays*p.LatenessPenalty)

	if delta >= 0 {
		efactor += delta * (p.MaxEFactor - efactor) / p.efactorRange()
	} else {
		efactor += delta * (efactor - p.MinEFactor) / p.efactorRange()
	}
	return math.Min(p.MaxEFactor, math.Max(p.MinEFactor, efactor))
}

// grow applies a successful answer to memoryDays. Growth is linear up to
// LinearGrowthLimit and sub-linear past it.
func (p Params) grow(memoryDays, efactor, decay float64, quality Quality) float64 {
	floor := p.MinMemoryDaysEasy
	if quality == Hard {
		floor = p.MinMemoryDaysHard
	}
	linear := math.Max(floor*efactor, memoryDays+math.Max(0, efactor*decay*memoryDays))
	if linear <= p.LinearGrowthLimit {
		return linear
	}
	// +1 keeps the power base at or above 1 right past the limit.
	return p.LinearGrowthLimit + math.Pow(linear-p.LinearGrowthLimit+1, p.TailExponent)
}

// efactorDelta looks up the ease change for an answer. Forgetting costs the
// same at every speed. A speed outside the table yields 0.
func efactorDelta(quality Quality, speed Speed) float64 {
	if quality == Forgot {
		return -0.3
	}
	if !speed.IsValid() {
		return 0
	}

	var table [CouldNotRecall + 1]float64
	switch quality {
	case Hard:
		table = [...]float64{
			QuestionReadTime: 0.15,
			Fast:             0.10,
			Moderate:         0.08,
			Slow:             0.06,
			VerySlow:         0.05,
			CouldNotRecall:   0.03,
		}
	case Easy:
		// CouldNotRecall outranks QuestionReadTime here; kept as tuned.
		table = [...]float64{
			QuestionReadTime: 0.31,
			Fast:             0.24,
			Moderate:         0.19,
			Slow:             0.14,
			VerySlow:         0.11,
			CouldNotRecall:   0.40,
		}
	}
	return table[speed]
}
