// Package report renders review histories for people to read.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"

	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/review"
)

var ErrNoRecord = errors.New("report: no such review")

var (
	freshnessColors = map[review.Freshness]string{
		review.ExcellentRetention: "#008000",
		review.GoodRecall:         "#0000FF",
		review.ModerateRecall:     "#FFA500",
		review.LowMemory:          "#FF80FF",
		review.HardRecall:         "#FF0000",
	}
	answerColors = map[review.Quality]string{
		review.Easy:   "#0000FF",
		review.Hard:   "#A52A2A",
		review.Forgot: "#FF0000",
	}
)

// Options controls rendering.
type Options struct {
	Plain bool // no colours
}

func (o Options) freshness(f review.Freshness, s string) string {
	return o.paint(freshnessColors[f], s, true)
}

func (o Options) answer(q review.Quality, s string) string {
	return o.paint(answerColors[q], s, false)
}

func (o Options) paint(hex, s string, bold bool) string {
	if o.Plain || hex == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(bold).Render(s)
}

// WriteList writes one line per review.
func WriteList(w io.Writer, h domain.History, opts Options) error {
	for _, rec := range h.Records {
		answer := opts.answer(rec.Answer.Quality, fmt.Sprintf("Answer = %s", rec.Answer.Quality))
		freshness := opts.freshness(rec.Freshness, fmt.Sprintf("freshness = %s (%.2f)", rec.Freshness, rec.RChance))
		_, err := fmt.Fprintf(w, "##%d: %s, Speed = %s, memoryDays = %.2f, efactor = %.2f, reps = %d, %s, daysLate = %.2fd\n",
			rec.I,
			answer,
			rec.Answer.Speed,
			rec.Card.MemoryDays,
			rec.Card.EFactor,
			rec.Card.Repetitions,
			freshness,
			rec.Answer.LateDays,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteDetail writes the transition made by review i, previous value first.
func WriteDetail(w io.Writer, h domain.History, i int, opts Options) error {
	if i < 0 || i >= len(h.Records) {
		return fmt.Errorf("%w: %d of %d", ErrNoRecord, i, len(h.Records))
	}
	cur := h.Records[i]
	prev := h.Previous(i)
	// The initial card has no freshness of its own; the first review shows its own on both sides.
	prevFreshness := prev.Freshness
	if i == 0 {
		prevFreshness = cur.Freshness
	}

	lines := []string{
		fmt.Sprintf("Review #%d", cur.I+1),
		opts.answer(cur.Answer.Quality, fmt.Sprintf("Answer: %s", cur.Answer.Quality)),
		fmt.Sprintf("Speed: %s", cur.Answer.Speed),
		fmt.Sprintf("Memory Days → %.2fd → %.2fd", prev.Card.MemoryDays, cur.Card.MemoryDays),
		fmt.Sprintf("EFactor → %.4f → %.4f", prev.Card.EFactor, cur.Card.EFactor),
		fmt.Sprintf("Reps → %d → %d", prev.Card.Repetitions, cur.Card.Repetitions),
		opts.freshness(cur.Freshness, fmt.Sprintf("Freshness → %s → %s", prevFreshness, cur.Freshness)),
		fmt.Sprintf("Retrievability → %.1f%% → %.1f%%", prev.RChance*100, cur.RChance*100),
		fmt.Sprintf("Overdue → %.2fd", cur.DaysOverdue),
		fmt.Sprintf("TotalDays → %.2fd", cur.TotalDays),
		fmt.Sprintf("Total → %d → %d", prev.Card.Total, cur.Card.Total),
		fmt.Sprintf("Date → %s", cur.Card.DueDate.Format("Mon Jan 02 2006")),
		fmt.Sprintf("DaysBetween → %.2f", cur.DaysSinceLastReview),
		fmt.Sprintf("Passed → %.2f", cur.TotalDays-h.Records[0].TotalDays),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the history as indented JSON.
func WriteJSON(w io.Writer, h domain.History) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("failed to encode history %s: %w", h.ID, err)
	}
	return nil
}
