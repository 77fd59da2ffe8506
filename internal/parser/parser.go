package parser

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/knolsim/internal/domain"
)

const (
	commentPrefix = "#"
	separator     = "---"
)

// ParseFile reads an answer script from the given path.
func ParseFile(path string) ([]domain.Answer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads an answer script: one `<quality> <speed> [lateDays]` per line.
// Blank lines, `---` separators and text after `#` are ignored.
func Parse(r io.Reader) ([]domain.Answer, error) {
	scanner := bufio.NewScanner(r)
	var answers []domain.Answer
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, commentPrefix); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || line == separator {
			continue
		}

		answer, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		answers = append(answers, answer)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}

func parseLine(line string) (domain.Answer, error) {
	var a domain.Answer
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return a, fmt.Errorf("expected `<quality> <speed> [lateDays]`, got %q", line)
	}

	if err := a.Quality.UnmarshalText([]byte(fields[0])); err != nil {
		return a, err
	}
	if err := a.Speed.UnmarshalText([]byte(fields[1])); err != nil {
		return a, err
	}
	if len(fields) == 3 {
		lateDays, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return a, fmt.Errorf("invalid late days %q: %w", fields[2], err)
		}
		if math.IsNaN(lateDays) || math.IsInf(lateDays, 0) {
			return a, fmt.Errorf("late days %q must be a finite number", fields[2])
		}
		if lateDays < 0 {
			return a, fmt.Errorf("late days %g must not be negative", lateDays)
		}
		a.LateDays = lateDays
	}
	return a, nil
}
