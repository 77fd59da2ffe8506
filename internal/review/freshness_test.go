package review

import (
	"encoding/json"
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		r    float64
		want Freshness
	}{
		{1, ExcellentRetention},
		{0.9001, ExcellentRetention},
		{0.9, GoodRecall},
		{0.71, GoodRecall},
		{0.7, ModerateRecall},
		{0.5001, ModerateRecall},
		{0.5, LowMemory},
		{0.26, LowMemory},
		{0.25, HardRecall},
		{0, HardRecall},
		{-0.3, HardRecall},
		{1.7, ExcellentRetention},
		{math.NaN(), HardRecall},
	}

	for _, tc := range testCases {
		if got := Classify(tc.r); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestFreshnessJSON(t *testing.T) {
	data, err := json.Marshal(ModerateRecall)
	if err != nil {
		t.Fatalf("Marshal returned an unexpected error: %v", err)
	}
	if string(data) != `"MODERATE_RECALL"` {
		t.Errorf("Expected %q, got %s", `"MODERATE_RECALL"`, data)
	}

	var f Freshness
	if err := json.Unmarshal([]byte(`"excellent_retention"`), &f); err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	if f != ExcellentRetention {
		t.Errorf("Expected %v, got %v", ExcellentRetention, f)
	}

	if _, err := json.Marshal(Freshness(0)); err == nil {
		t.Error("Expected an error marshalling an invalid freshness")
	}
}
