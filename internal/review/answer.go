package review

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Quality is how well the learner recalled the card.
type Quality int

const (
	Forgot Quality = iota + 1 // Could not recall the answer.
	Hard                      // Recalled with effort.
	Easy                      // Recalled without effort.
)

// Speed is how quickly the answer came, independent of whether it was right.
type Speed int

const (
	QuestionReadTime Speed = iota // Answered while still reading the question.
	Fast
	Moderate
	Slow
	VerySlow
	CouldNotRecall
)

var (
	qualityNames  = [...]string{Forgot: "FORGOT", Hard: "HARD", Easy: "EASY"}
	qualityByName = map[string]Quality{"FORGOT": Forgot, "HARD": Hard, "EASY": Easy}

	speedNames = [...]string{
		QuestionReadTime: "QUESTION_READ_TIME",
		Fast:             "FAST",
		Moderate:         "MODERATE",
		Slow:             "SLOW",
		VerySlow:         "VERY_SLOW",
		CouldNotRecall:   "COULD_NOT_RECALL",
	}
	speedByName = map[string]Speed{
		"QUESTION_READ_TIME": QuestionReadTime,
		"FAST":               Fast,
		"MODERATE":           Moderate,
		"SLOW":               Slow,
		"VERY_SLOW":          VerySlow,
		"COULD_NOT_RECALL":   CouldNotRecall,
	}
)

// Qualities lists every valid Quality in declaration order.
var Qualities = []Quality{Forgot, Hard, Easy}

// Speeds lists every valid Speed from fastest to slowest.
var Speeds = []Speed{QuestionReadTime, Fast, Moderate, Slow, VerySlow, CouldNotRecall}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Quality(0)
	_ json.Marshaler           = Quality(0)
	_ json.Unmarshaler         = (*Quality)(nil)
	_ encoding.TextUnmarshaler = (*Quality)(nil)
	_ fmt.Stringer             = Speed(0)
	_ json.Marshaler           = Speed(0)
	_ json.Unmarshaler         = (*Speed)(nil)
	_ encoding.TextUnmarshaler = (*Speed)(nil)
)

// IsValid reports whether q is one of Forgot, Hard or Easy.
func (q Quality) IsValid() bool {
	return q >= Forgot && q <= Easy
}

func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, invalid("quality", int(q), ErrInvalidQuality)
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-insensitive.
func (q *Quality) UnmarshalText(text []byte) error {
	v, ok := qualityByName[strings.ToUpper(string(text))]
	if !ok {
		return invalid("quality", string(text), ErrInvalidQuality)
	}
	*q = v
	return nil
}

// MarshalJSON implements json.Marshaler. Quality serializes as a JSON string.
func (q Quality) MarshalJSON() ([]byte, error) {
	text, err := q.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return invalid("quality", string(data), ErrInvalidQuality)
	}
	return q.UnmarshalText([]byte(s))
}

// IsValid reports whether s is one of the known speeds.
func (s Speed) IsValid() bool {
	return s >= QuestionReadTime && s <= CouldNotRecall
}

func (s Speed) String() string {
	if s.IsValid() {
		return speedNames[s]
	}
	return fmt.Sprintf("Speed(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Speed) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, invalid("speed", int(s), ErrInvalidSpeed)
	}
	return []byte(speedNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-insensitive.
func (s *Speed) UnmarshalText(text []byte) error {
	v, ok := speedByName[strings.ToUpper(string(text))]
	if !ok {
		return invalid("speed", string(text), ErrInvalidSpeed)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Speed serializes as a JSON string.
func (s Speed) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Speed) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return invalid("speed", string(data), ErrInvalidSpeed)
	}
	return s.UnmarshalText([]byte(str))
}
