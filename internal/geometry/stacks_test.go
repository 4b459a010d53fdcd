package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/nao1215/srcpgear/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

// macroStack1 is stage 1 of the default CAD macro tooth set (carrier radius 8.25 mm).
func macroStack1() model.StackParams {
	return model.NewStackParams(0.5, 54, 21, 20, 0.0508)
}

func TestSolveStacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stack1     model.StackParams
		stack2     model.StackParams
		wantSolved string
		wantValue  float64
	}{
		{
			name:       "complete config",
			stack1:     macroStack1(),
			stack2:     model.NewStackParams(0.5, 53, 20, 20, 0),
			wantSolved: "",
		},
		{
			name:       "stack 2 module",
			stack1:     macroStack1(),
			stack2:     model.StackParams{RingTeeth: ptr(40), PlanetTeeth: ptr(7), PressureAngle: 20},
			wantSolved: "stack_2_params.module",
			wantValue:  0.5,
		},
		{
			name:       "stack 2 ring teeth",
			stack1:     macroStack1(),
			stack2:     model.StackParams{Module: ptr(0.75), PlanetTeeth: ptr(12), PressureAngle: 20},
			wantSolved: "stack_2_params.ring_teeth",
			wantValue:  34,
		},
		{
			name:       "stack 1 planet teeth",
			stack1:     model.StackParams{Module: ptr(0.5), RingTeeth: ptr(54), PressureAngle: 20},
			stack2:     model.NewStackParams(0.75, 34, 12, 20, 0),
			wantSolved: "stack_1_params.planet_teeth",
			wantValue:  21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sol, err := SolveStacks(model.StackConfig{Stack1: tt.stack1, Stack2: tt.stack2}, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sol.Solved != tt.wantSolved {
				t.Errorf("expected solved %q, got %q", tt.wantSolved, sol.Solved)
			}
			if tt.wantSolved != "" && math.Abs(sol.Value-tt.wantValue) > 1e-9 {
				t.Errorf("expected value %v, got %v", tt.wantValue, sol.Value)
			}
			if math.Abs(sol.CarrierRadius1-8.25) > 1e-9 || math.Abs(sol.CarrierRadius2-8.25) > 1e-9 {
				t.Errorf("expected both carrier radii 8.25, got %v and %v", sol.CarrierRadius1, sol.CarrierRadius2)
			}
			if sol.Stage1Sun != 12 || !sol.Stage1Valid {
				t.Errorf("expected valid stage 1 with 12 sun teeth, got %d (%v)", sol.Stage1Sun, sol.Stage1Valid)
			}
			if len(sol.Config.Stack1.Missing())+len(sol.Config.Stack2.Missing()) != 0 {
				t.Error("solved config must be complete")
			}
		})
	}
}

func TestSolveStacksDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := model.StackConfig{
		Stack1: macroStack1(),
		Stack2: model.StackParams{RingTeeth: ptr(40), PlanetTeeth: ptr(7)},
	}
	if _, err := SolveStacks(in, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Stack2.Module != nil {
		t.Error("input config must stay untouched")
	}
}

func TestSolveStacksErrors(t *testing.T) {
	t.Parallel()

	t.Run("too many missing", func(t *testing.T) {
		t.Parallel()

		cfg := model.StackConfig{
			Stack1: model.StackParams{Module: ptr(0.5), RingTeeth: ptr(54)},
			Stack2: model.StackParams{RingTeeth: ptr(40), PlanetTeeth: ptr(7)},
		}
		if _, err := SolveStacks(cfg, 3); !errors.Is(err, ErrTooManyMissing) {
			t.Errorf("expected ErrTooManyMissing, got %v", err)
		}
	})

	t.Run("rounded teeth miss the carrier", func(t *testing.T) {
		t.Parallel()

		// 12 + 16.5/0.6 = 39.5 rounds to 40, giving 8.4 mm instead of 8.25 mm.
		cfg := model.StackConfig{
			Stack1: macroStack1(),
			Stack2: model.StackParams{Module: ptr(0.6), PlanetTeeth: ptr(12)},
		}
		sol, err := SolveStacks(cfg, 3)
		if !errors.Is(err, ErrCarrierMismatch) {
			t.Fatalf("expected ErrCarrierMismatch, got %v", err)
		}
		if sol == nil || *sol.Config.Stack2.RingTeeth != 40 {
			t.Errorf("expected the rounded solution alongside the error, got %+v", sol)
		}
	})

	t.Run("module with ring smaller than planet", func(t *testing.T) {
		t.Parallel()

		cfg := model.StackConfig{
			Stack1: macroStack1(),
			Stack2: model.StackParams{RingTeeth: ptr(7), PlanetTeeth: ptr(12)},
		}
		if _, err := SolveStacks(cfg, 3); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("expected ErrInvalidGeometry, got %v", err)
		}
	})
}
