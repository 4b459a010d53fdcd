package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/nao1215/srcpgear/internal/model"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	t.Run("worked example is exactly 67.5", func(t *testing.T) {
		t.Parallel()

		got, err := Ratio(8, 10, 28, 9, 27)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 67.5 {
			t.Errorf("expected exactly 67.5, got %v", got)
		}
	})

	t.Run("matches the closed form", func(t *testing.T) {
		t.Parallel()

		// 12/21/54/20/53 is the default tooth set of the CAD macro.
		sun, p1, r1, p2, r2 := 12.0, 21.0, 54.0, 20.0, 53.0
		want := (sun + r1) / (sun * (1 - (r1*p2)/(p1*r2)))

		got, err := Ratio(12, 21, 54, 20, 53)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-want) > 1e-9*math.Abs(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("negative when output reverses", func(t *testing.T) {
		t.Parallel()

		// planet2 larger than planet1 makes ring1*planet2 > planet1*ring2.
		got, err := Ratio(8, 9, 26, 12, 29)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got >= 0 {
			t.Errorf("expected negative ratio, got %v", got)
		}
	})

	t.Run("singular train returns ErrSingular", func(t *testing.T) {
		t.Parallel()

		// planet1 == planet2 gives ring1 == ring2 and a vanishing denominator.
		_, err := Ratio(8, 10, 28, 10, 28)
		if !errors.Is(err, ErrSingular) {
			t.Errorf("expected ErrSingular, got %v", err)
		}
	})

	t.Run("non-positive teeth return ErrNonPositiveTeeth", func(t *testing.T) {
		t.Parallel()

		_, err := Ratio(0, 10, 28, 9, 27)
		if !errors.Is(err, ErrNonPositiveTeeth) {
			t.Errorf("expected ErrNonPositiveTeeth, got %v", err)
		}
	})
}

func TestFraction(t *testing.T) {
	t.Parallel()

	num, den, err := Fraction(8, 10, 28, 9, 27)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 135 || den != 2 {
		t.Errorf("expected 135/2, got %d/%d", num, den)
	}
}

func TestRatioOf(t *testing.T) {
	t.Parallel()

	tc := model.MustToothCounts(8, 10, 9)
	got, err := RatioOf(tc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 67.5 {
		t.Errorf("expected 67.5, got %v", got)
	}
	if IsSingular(tc) {
		t.Error("worked example must not be singular")
	}
	if !IsSingular(model.MustToothCounts(8, 10, 10)) {
		t.Error("equal planet sections must be singular")
	}
}

func TestSunToCarrier(t *testing.T) {
	t.Parallel()

	stc := SunToCarrier(8, 28)
	if stc != 4.5 {
		t.Errorf("expected 4.5, got %v", stc)
	}
	if got := CarrierDriven(67.5, stc); got != 15 {
		t.Errorf("expected 15, got %v", got)
	}
}
