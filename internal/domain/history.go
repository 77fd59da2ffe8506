package domain

import (
	"time"

	"github.com/conorfennell/knolsim/internal/review"
)

// MaxLateDays bounds Answer.LateDays; the validate tag below repeats it.
const MaxLateDays = 36500

// Answer is one learner response fed to the scheduler.
// LateDays is how many days past the card's due date the answer was given.
type Answer struct {
	Quality  review.Quality `json:"quality" validate:"min=1,max=3"`
	Speed    review.Speed   `json:"speed" validate:"min=0,max=5"`
	LateDays float64        `json:"late_days" validate:"gte=0,lte=36500"`
}

// Record is a single entry of a review history.
type Record struct {
	I         int              `json:"i"`
	Card      review.CardState `json:"card"`
	Freshness review.Freshness `json:"freshness"`
	RChance   float64          `json:"r_chance"`
	Answer    Answer           `json:"answer"`

	DaysSinceLastReview float64   `json:"days_since_last_review"`
	DaysOverdue         float64   `json:"days_overdue"`
	Now                 time.Time `json:"now"`        // when the answer was given
	TotalDays           float64   `json:"total_days"` // days since the start of the history
}

// History is the ordered, append-only outcome of feeding answers to one card.
type History struct {
	ID      string           `json:"id"`
	Start   time.Time        `json:"start"`
	Initial review.CardState `json:"initial"`
	Records []Record         `json:"records"`
}

// Previous returns the record before i. For the first record it returns a
// synthetic record describing the initial card, carrying the first answer.
func (h History) Previous(i int) Record {
	if i > 0 && i <= len(h.Records) {
		return h.Records[i-1]
	}
	rec := Record{
		I:         -1,
		Card:      h.Initial,
		Freshness: review.HardRecall,
		Now:       h.Start,
	}
	if len(h.Records) > 0 {
		rec.Answer = h.Records[0].Answer
	}
	return rec
}
