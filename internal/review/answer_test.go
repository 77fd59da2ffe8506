package review

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQualityText(t *testing.T) {
	for _, q := range Qualities {
		var got Quality
		if err := got.UnmarshalText([]byte(q.String())); err != nil {
			t.Fatalf("UnmarshalText(%q) returned an unexpected error: %v", q, err)
		}
		if got != q {
			t.Errorf("Expected %v, got %v", q, got)
		}
	}

	var q Quality
	if err := q.UnmarshalText([]byte("easy")); err != nil || q != Easy {
		t.Errorf("Expected lower-case names to parse, got %v (%v)", q, err)
	}
	if err := q.UnmarshalText([]byte("GOOD")); !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("Expected ErrInvalidQuality, got %v", err)
	}
	if s := Quality(9).String(); s != "Quality(9)" {
		t.Errorf("Expected Quality(9), got %s", s)
	}
}

func TestSpeedText(t *testing.T) {
	var s Speed
	if err := s.UnmarshalText([]byte("very_slow")); err != nil || s != VerySlow {
		t.Errorf("Expected VERY_SLOW, got %v (%v)", s, err)
	}
	if err := s.UnmarshalText([]byte("INSTANT")); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("Expected ErrInvalidSpeed, got %v", err)
	}
	if _, err := Speed(12).MarshalText(); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("Expected ErrInvalidSpeed, got %v", err)
	}
	if Speed(12).String() != "Speed(12)" {
		t.Errorf("Expected Speed(12), got %s", Speed(12))
	}
}

func TestAnswerJSON(t *testing.T) {
	type answer struct {
		Quality Quality `json:"quality"`
		Speed   Speed   `json:"speed"`
	}

	data, err := json.Marshal(answer{Quality: Hard, Speed: CouldNotRecall})
	if err != nil {
		t.Fatalf("Marshal returned an unexpected error: %v", err)
	}
	want := `{"quality":"HARD","speed":"COULD_NOT_RECALL"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	var got answer
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	if got.Quality != Hard || got.Speed != CouldNotRecall {
		t.Errorf("Expected HARD/COULD_NOT_RECALL, got %v/%v", got.Quality, got.Speed)
	}

	if err := json.Unmarshal([]byte(`{"quality":3}`), &got); !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("Expected ErrInvalidQuality for a numeric quality, got %v", err)
	}
}
