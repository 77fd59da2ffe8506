package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/review"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Schedule a single answer for a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			params := cfg.Scheduler.Params()
			now := time.Now()

			state, err := stateFromFlags(cmd, params, now)
			if err != nil {
				return err
			}

			var speed review.Speed
			speedName, _ := cmd.Flags().GetString("speed")
			if err := speed.UnmarshalText([]byte(speedName)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if preview, _ := cmd.Flags().GetBool("preview"); preview {
				results, err := params.Preview(state, speed, now)
				if err != nil {
					return err
				}
				for _, q := range review.Qualities {
					fmt.Fprintf(out, "[%s]\n", q)
					printResult(out, results[q], now)
				}
				return nil
			}

			var quality review.Quality
			qualityName, _ := cmd.Flags().GetString("quality")
			if err := quality.UnmarshalText([]byte(qualityName)); err != nil {
				return err
			}
			res, err := params.Next(state, quality, speed, now)
			if err != nil {
				return err
			}
			printResult(out, res, now)
			return nil
		},
	}

	def := review.DefaultParams()
	flags := cmd.Flags()
	flags.String("quality", "", "Answer quality: FORGOT, HARD or EASY")
	flags.String("speed", review.Moderate.String(), "Answer speed, QUESTION_READ_TIME to COULD_NOT_RECALL")
	flags.Bool("preview", false, "Show the outcome of every quality instead of one")
	flags.Float64("memory-days", 0, "Current memory days of the card")
	flags.Float64("efactor", def.MidEFactor(), "Current ease factor of the card")
	flags.Int("reps", 0, "Current consecutive repetitions")
	flags.Int("total", 0, "Answers given so far")
	flags.Float64("since-last-days", 0, "Days since the previous answer")
	flags.Float64("late-days", 0, "Days past the current due date")
	return cmd
}

func stateFromFlags(cmd *cobra.Command, params review.Params, now time.Time) (review.CardState, error) {
	flags := cmd.Flags()
	memoryDays, _ := flags.GetFloat64("memory-days")
	efactor, _ := flags.GetFloat64("efactor")
	reps, _ := flags.GetInt("reps")
	total, _ := flags.GetInt("total")
	sinceLast, _ := flags.GetFloat64("since-last-days")
	lateDays, _ := flags.GetFloat64("late-days")

	for _, d := range []float64{sinceLast, lateDays} {
		if !(d >= 0 && d <= domain.MaxLateDays) {
			return review.CardState{}, fmt.Errorf("%w: since-last-days and late-days must be in [0, %d]", review.ErrInvalidReview, domain.MaxLateDays)
		}
	}

	return review.CardState{
		DueDate:     now.Add(-params.Duration(lateDays)),
		LastAnswer:  now.Add(-params.Duration(sinceLast)),
		MemoryDays:  memoryDays,
		EFactor:     efactor,
		Repetitions: reps,
		Total:       total,
	}, nil
}

func printResult(w io.Writer, res review.Result, now time.Time) {
	fmt.Fprintf(w, "efactor      %.4f\n", res.Card.EFactor)
	fmt.Fprintf(w, "memory days  %.2f\n", res.Card.MemoryDays)
	fmt.Fprintf(w, "repetitions  %d\n", res.Card.Repetitions)
	fmt.Fprintf(w, "total        %d\n", res.Card.Total)
	fmt.Fprintf(w, "due          %s (in %s)\n", res.Card.DueDate.Format(time.RFC3339), res.Card.DueDate.Sub(now).Round(time.Minute))
	fmt.Fprintf(w, "retrievable  %.1f%%\n", res.RChance*100)
	fmt.Fprintf(w, "freshness    %s\n", res.Freshness)
	fmt.Fprintf(w, "overdue      %.2fd\n", res.DaysOverdue)
	fmt.Fprintf(w, "since last   %.2fd\n", res.DaysSinceLastReview)
}
