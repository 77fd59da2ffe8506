package review

import (
	"fmt"
	"math"
	"time"
)

// Params holds the tuning of the review scheduler.
// A Params value is never modified by the scheduler; copy it to try alternate tunings.
type Params struct {
	MinEFactor float64 // lower bound of the ease factor
	MaxEFactor float64 // upper bound of the ease factor
	Day        time.Duration

	LatenessPenalty float64 // ease lost per overdue day, applied before the answer delta
	ForgetDrop      float64 // share of remaining memory lost on a forgotten answer

	MinMemoryDaysForgot float64 // floor for memory after forgetting
	MinMemoryDaysHard   float64 // multiplied by the ease factor
	MinMemoryDaysEasy   float64 // multiplied by the ease factor
	LinearGrowthLimit   float64 // memory days above which growth turns sub-linear
	TailExponent        float64
	MaxMemoryDaysLimit  float64 // normalizes the log part of the retrievability estimate

	FirstDueInterval         float64 // due interval cap in days with zero repetitions
	DueIntervalPerRepetition float64 // extra cap in days for each repetition

	LogWeight       float64
	EFactorWeight   float64
	EFactorHeadroom float64
}

// DefaultParams returns the standard scheduler tuning.
func DefaultParams() Params {
	return Params{
		MinEFactor:               1.3,
		MaxEFactor:               2.8,
		Day:                      24 * time.Hour,
		LatenessPenalty:          0.001,
		ForgetDrop:               0.8,
		MinMemoryDaysForgot:      0.02,
		MinMemoryDaysHard:        0.5,
		MinMemoryDaysEasy:        1,
		LinearGrowthLimit:        180,
		TailExponent:             0.84,
		MaxMemoryDaysLimit:       360,
		FirstDueInterval:         0.5,
		DueIntervalPerRepetition: 5,
		LogWeight:                0.7,
		EFactorWeight:            0.4,
		EFactorHeadroom:          0.4,
	}
}

// Validate checks that the tuning keeps the scheduler's invariants reachable.
func (p Params) Validate() error {
	switch {
	case p.MinEFactor <= 0:
		return fmt.Errorf("%w: min efactor %g must be positive", ErrInvalidParams, p.MinEFactor)
	case p.MaxEFactor <= p.MinEFactor:
		return fmt.Errorf("%w: max efactor %g must exceed min efactor %g", ErrInvalidParams, p.MaxEFactor, p.MinEFactor)
	case p.Day <= 0:
		return fmt.Errorf("%w: day length %s must be positive", ErrInvalidParams, p.Day)
	case p.LatenessPenalty < 0:
		return fmt.Errorf("%w: lateness penalty %g is negative", ErrInvalidParams, p.LatenessPenalty)
	case p.ForgetDrop < 0 || p.ForgetDrop > 1:
		return fmt.Errorf("%w: forget drop %g out of range [0, 1]", ErrInvalidParams, p.ForgetDrop)
	case p.MinMemoryDaysForgot <= 0:
		return fmt.Errorf("%w: forgotten memory floor %g must be positive", ErrInvalidParams, p.MinMemoryDaysForgot)
	case p.MinMemoryDaysHard < 0 || p.MinMemoryDaysEasy < 0:
		return fmt.Errorf("%w: memory floors must not be negative", ErrInvalidParams)
	case p.LinearGrowthLimit <= 0:
		return fmt.Errorf("%w: linear growth limit %g must be positive", ErrInvalidParams, p.LinearGrowthLimit)
	case p.TailExponent <= 0 || p.TailExponent > 1:
		return fmt.Errorf("%w: tail exponent %g out of range (0, 1]", ErrInvalidParams, p.TailExponent)
	case p.MaxMemoryDaysLimit <= 0:
		return fmt.Errorf("%w: max memory days %g must be positive", ErrInvalidParams, p.MaxMemoryDaysLimit)
	case p.FirstDueInterval < 0 || p.DueIntervalPerRepetition < 0:
		return fmt.Errorf("%w: due interval caps must not be negative", ErrInvalidParams)
	case p.LogWeight < 0 || p.EFactorWeight < 0 || p.EFactorHeadroom < 0:
		return fmt.Errorf("%w: retrievability weights must not be negative", ErrInvalidParams)
	}
	return nil
}

// MidEFactor is the ease factor given to a new card.
func (p Params) MidEFactor() float64 {
	return (p.MaxEFactor-p.MinEFactor)/2 + p.MinEFactor
}

func (p Params) efactorRange() float64 {
	return p.MaxEFactor - p.MinEFactor
}

// Days converts a duration to fractional days.
func (p Params) Days(d time.Duration) float64 {
	return float64(d) / float64(p.Day)
}

// Duration converts fractional days to a duration, saturating at the limits
// of time.Duration. NaN converts to zero.
func (p Params) Duration(days float64) time.Duration {
	d := days * float64(p.Day)
	switch {
	case math.IsNaN(d):
		return 0
	case d >= math.MaxInt64:
		return math.MaxInt64
	case d <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(d)
}
