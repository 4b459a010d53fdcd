package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestRoundSignificant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  float64
		digits int
		want   float64
	}{
		{name: "binary noise is removed", value: 67.50000000000001, digits: 10, want: 67.5},
		{name: "error percent", value: 2.1180030257186386, digits: 4, want: 2.118},
		{name: "negative value", value: -0.33333333333333, digits: 3, want: -0.333},
		{name: "zero", value: 0, digits: 10, want: 0},
		{name: "large value", value: 123456789, digits: 3, want: 123000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RoundSignificant(tt.value, tt.digits); got != tt.want {
				t.Errorf("RoundSignificant(%v, %d) = %v, want %v", tt.value, tt.digits, got, tt.want)
			}
		})
	}

	t.Run("special values pass through", func(t *testing.T) {
		t.Parallel()

		if got := RoundSignificant(math.Inf(1), 3); !math.IsInf(got, 1) {
			t.Errorf("expected +Inf, got %v", got)
		}
		if got := RoundSignificant(math.NaN(), 3); !math.IsNaN(got) {
			t.Errorf("expected NaN, got %v", got)
		}
	})
}

// TestPrecisionHandler_RoundsFloats tests that float attributes are rounded.
func TestPrecisionHandler_RoundsFloats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)
	logger.Info("search complete", "ratio", 67.50000000000001, "sun", 8, "objective", "min_teeth")

	output := buf.String()
	if !strings.Contains(output, "ratio=67.5 ") {
		t.Errorf("expected rounded ratio, got: %s", output)
	}
	if !strings.Contains(output, "sun=8") || !strings.Contains(output, "objective=min_teeth") {
		t.Errorf("expected other attributes unchanged, got: %s", output)
	}
}

// TestPrecisionHandler_Groups tests that nested groups are rounded.
func TestPrecisionHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)
	logger.Info("result",
		slog.Group("best",
			slog.Float64("ratio", 67.50000000000001),
			slog.Group("error", slog.Float64("percent", 2.1180030257186386)),
		),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	best, ok := entry["best"].(map[string]any)
	if !ok {
		t.Fatalf("expected best group, got %v", entry)
	}
	if best["ratio"] != 67.5 {
		t.Errorf("expected 67.5, got %v", best["ratio"])
	}
	inner, ok := best["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested group, got %v", best)
	}
	if inner["percent"] != 2.118003026 {
		t.Errorf("expected 2.118003026, got %v", inner["percent"])
	}
}

// TestPrecisionHandler_WithAttrsAndGroup tests derived handlers.
func TestPrecisionHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).With("target_ratio", 66.10000000000001).WithGroup("stage")
	logger.Info("partition complete", "closest", 0.30000000000000004)

	output := buf.String()
	if !strings.Contains(output, "target_ratio=66.1 ") {
		t.Errorf("expected rounded WithAttrs value, got: %s", output)
	}
	if !strings.Contains(output, "stage.closest=0.3") {
		t.Errorf("expected rounded grouped value, got: %s", output)
	}
}

// TestNewLogger_Level tests the verbose switch.
func TestNewLogger_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("info must be suppressed without verbose")
	}
	if !strings.Contains(output, "shown") {
		t.Error("warnings must always be logged")
	}
}

func TestNewPrecisionHandler_Defaults(t *testing.T) {
	t.Parallel()

	h := NewPrecisionHandler(nil, 0)
	if h.digits != DefaultSignificantDigits {
		t.Errorf("expected %d digits, got %d", DefaultSignificantDigits, h.digits)
	}
	if h.handler == nil {
		t.Error("expected the default handler")
	}
}
