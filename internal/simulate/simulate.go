// Package simulate feeds answer sequences to the review scheduler and records
// the resulting history of a single card.
package simulate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/review"
)

// ErrInvalidAnswer is returned for answers that fail validation before scheduling.
var ErrInvalidAnswer = fmt.Errorf("%w: invalid answer", review.ErrInvalidReview)

// Source is the random source used to generate answers.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded source, so a simulation can be replayed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Driver runs answer sequences through the scheduler.
type Driver struct {
	params   review.Params
	logger   *slog.Logger
	validate *validator.Validate
	entropy  io.Reader
}

// NewDriver creates a driver for the given scheduler tuning.
// A nil logger falls back to slog.Default.
func NewDriver(params review.Params, logger *slog.Logger) (*Driver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		params:   params,
		logger:   logger,
		validate: validator.New(),
		entropy:  ulid.DefaultEntropy(),
	}, nil
}

// Run answers a new card created at start once per answer, in order.
// Each answer is given LateDays after the due date set by the previous one.
// On failure the history holds the records built before the failing answer.
func (d *Driver) Run(start time.Time, answers []domain.Answer) (domain.History, error) {
	// The ID records when the run happened, not the simulated start, which may
	// lie outside the range a ULID timestamp can hold.
	id, err := ulid.New(ulid.Now(), d.entropy)
	if err != nil {
		return domain.History{}, fmt.Errorf("failed to generate history id: %w", err)
	}

	card := d.params.NewCard(start)
	h := domain.History{
		ID:      id.String(),
		Start:   start,
		Initial: card,
		Records: make([]domain.Record, 0, len(answers)),
	}

	for i, a := range answers {
		if err := d.validateAnswer(a); err != nil {
			return h, fmt.Errorf("answer %d: %w", i, err)
		}
	}

	totalDays := 0.0
	for i, a := range answers {
		now := card.DueDate.Add(d.params.Duration(a.LateDays))
		res, err := d.params.Next(card, a.Quality, a.Speed, now)
		if err != nil {
			return h, fmt.Errorf("answer %d: %w", i, err)
		}
		card = res.Card
		totalDays += res.DaysSinceLastReview

		h.Records = append(h.Records, domain.Record{
			I:                   i,
			Card:                res.Card,
			Freshness:           res.Freshness,
			RChance:             res.RChance,
			Answer:              a,
			DaysSinceLastReview: res.DaysSinceLastReview,
			DaysOverdue:         res.DaysOverdue,
			Now:                 now,
			TotalDays:           totalDays,
		})
		d.logger.Debug("review scheduled",
			"i", i,
			"quality", a.Quality,
			"speed", a.Speed,
			"memory_days", res.Card.MemoryDays,
			"efactor", res.Card.EFactor,
			"freshness", res.Freshness,
		)
	}

	d.logger.Info("simulation complete", "id", h.ID, "records", len(h.Records))
	return h, nil
}

func (d *Driver) validateAnswer(a domain.Answer) error {
	err := d.validate.Struct(a)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Quality":
		return &review.ValidationError{Field: "quality", Value: fe.Value(), Err: review.ErrInvalidQuality}
	case "Speed":
		return &review.ValidationError{Field: "speed", Value: fe.Value(), Err: review.ErrInvalidSpeed}
	case "LateDays":
		return &review.ValidationError{
			Field: "late_days",
			Value: fe.Value(),
			Err:   fmt.Errorf("%w: late days must be a number in [0, %d]", ErrInvalidAnswer, domain.MaxLateDays),
		}
	default:
		return &review.ValidationError{Field: fe.Field(), Value: fe.Value(), Err: ErrInvalidAnswer}
	}
}

// RandomAnswers draws count answers with uniformly chosen quality and speed,
// and whole late days in [0, maxLateDays).
func RandomAnswers(src Source, count, maxLateDays int) []domain.Answer {
	answers := make([]domain.Answer, 0, count)
	for i := 0; i < count; i++ {
		a := domain.Answer{
			Quality: review.Qualities[src.Intn(len(review.Qualities))],
			Speed:   review.Speeds[src.Intn(len(review.Speeds))],
		}
		if maxLateDays > 0 {
			a.LateDays = float64(src.Intn(maxLateDays))
		}
		answers = append(answers, a)
	}
	return answers
}
