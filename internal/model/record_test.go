package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRecord(t *testing.T) {
	t.Parallel()

	res := NewCandidateResult(MustToothCounts(8, 10, 9), 66.1, 67.5, DefaultGearParameters())
	rec := NewRecord(res)

	t.Run("tooth counts are flattened", func(t *testing.T) {
		t.Parallel()

		want := ToothCountsDTO{SunTeeth: 8, P1Teeth: 10, R1Teeth: 28, P2Teeth: 9, R2Teeth: 27}
		if diff := cmp.Diff(want, rec.ToothCounts); diff != "" {
			t.Errorf("tooth counts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ratios carry the error", func(t *testing.T) {
		t.Parallel()

		if rec.GearRatios.ActualRatio != 67.5 {
			t.Errorf("expected actual 67.5, got %v", rec.GearRatios.ActualRatio)
		}
		want := 100 * 1.4 / 66.1
		if diff := rec.GearRatios.ErrorPercent - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected error %v, got %v", want, rec.GearRatios.ErrorPercent)
		}
	})

	t.Run("profile shift applies to stage 1 only", func(t *testing.T) {
		t.Parallel()

		if rec.Stack1.ProfileShift != DefaultProfileShift {
			t.Errorf("expected stage 1 shift %v, got %v", DefaultProfileShift, rec.Stack1.ProfileShift)
		}
		if rec.Stack2.ProfileShift != 0 {
			t.Errorf("expected stage 2 shift 0, got %v", rec.Stack2.ProfileShift)
		}
		if *rec.Stack1.RingTeeth != 28 || *rec.Stack1.PlanetTeeth != 10 {
			t.Errorf("unexpected stage 1 stack %d/%d", *rec.Stack1.RingTeeth, *rec.Stack1.PlanetTeeth)
		}
		if *rec.Stack2.RingTeeth != 27 || *rec.Stack2.PlanetTeeth != 9 {
			t.Errorf("unexpected stage 2 stack %d/%d", *rec.Stack2.RingTeeth, *rec.Stack2.PlanetTeeth)
		}
	})
}

func TestToothCountsDTOTeeth(t *testing.T) {
	t.Parallel()

	t.Run("consistent rings", func(t *testing.T) {
		t.Parallel()

		tc, ok, err := NewToothCountsDTO(MustToothCounts(12, 21, 20)).Teeth()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("expected consistent ring counts")
		}
		if tc.Ring1() != 54 || tc.Ring2() != 53 {
			t.Errorf("unexpected rings %d/%d", tc.Ring1(), tc.Ring2())
		}
	})

	t.Run("inconsistent rings are reported", func(t *testing.T) {
		t.Parallel()

		dto := ToothCountsDTO{SunTeeth: 8, P1Teeth: 10, R1Teeth: 29, P2Teeth: 9, R2Teeth: 27}
		_, ok, err := dto.Teeth()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected inconsistent ring counts")
		}
	})
}

func TestStackParamsMissing(t *testing.T) {
	t.Parallel()

	ring := 54
	s := StackParams{RingTeeth: &ring}
	if diff := cmp.Diff([]string{"module", "planet_teeth"}, s.Missing()); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}
