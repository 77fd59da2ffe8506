package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Freshness buckets a retrievability estimate for display and triage.
type Freshness int

const (
	HardRecall Freshness = iota + 1
	LowMemory
	ModerateRecall
	GoodRecall
	ExcellentRetention
)

var (
	freshnessNames = [...]string{
		HardRecall:         "HARD_RECALL",
		LowMemory:          "LOW_MEMORY",
		ModerateRecall:     "MODERATE_RECALL",
		GoodRecall:         "GOOD_RECALL",
		ExcellentRetention: "EXCELLENT_RETENTION",
	}
	freshnessByName = map[string]Freshness{
		"HARD_RECALL":         HardRecall,
		"LOW_MEMORY":          LowMemory,
		"MODERATE_RECALL":     ModerateRecall,
		"GOOD_RECALL":         GoodRecall,
		"EXCELLENT_RETENTION": ExcellentRetention,
	}
)

// Classify maps a recall probability to its freshness category.
// Thresholds are strict, so exactly 0.9 is GoodRecall and exactly 0.25 is HardRecall.
// NaN falls through to HardRecall.
func Classify(r float64) Freshness {
	switch {
	case r > 0.9:
		return ExcellentRetention
	case r > 0.7:
		return GoodRecall
	case r > 0.5:
		return ModerateRecall
	case r > 0.25:
		return LowMemory
	default:
		return HardRecall
	}
}

func (f Freshness) isValid() bool {
	return f >= HardRecall && f <= ExcellentRetention
}

func (f Freshness) String() string {
	if f.isValid() {
		return freshnessNames[f]
	}
	return fmt.Sprintf("Freshness(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Freshness) MarshalText() ([]byte, error) {
	if !f.isValid() {
		return nil, fmt.Errorf("review: invalid freshness: %d", int(f))
	}
	return []byte(freshnessNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Freshness) UnmarshalText(text []byte) error {
	v, ok := freshnessByName[strings.ToUpper(string(text))]
	if !ok {
		return fmt.Errorf("review: invalid freshness: %q", text)
	}
	*f = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Freshness) MarshalJSON() ([]byte, error) {
	text, err := f.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Freshness) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("review: invalid freshness: %s", data)
	}
	return f.UnmarshalText([]byte(s))
}
