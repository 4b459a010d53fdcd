package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nao1215/srcpgear/internal/model"
)

func TestRunError(t *testing.T) {
	t.Parallel()

	live := fmt.Errorf("%w: closest 2.1%%", ErrNoSolutionWithinTolerance)

	tests := []struct {
		name    string
		run     *model.Run
		want    error
		wantNil bool
		wantMsg string
	}{
		{name: "solved", run: &model.Run{Status: model.RunStatusSolved}, wantNil: true},
		{name: "live error is returned as is", run: &model.Run{Status: model.RunStatusNoSolution, Err: live}, want: live, wantMsg: live.Error()},
		{
			name:    "stored no solution",
			run:     &model.Run{Status: model.RunStatusNoSolution, Error: "no configuration within tolerance: closest 2.1%"},
			want:    ErrNoSolutionWithinTolerance,
			wantMsg: "no configuration within tolerance: closest 2.1%",
		},
		{
			name:    "stored infeasible without message",
			run:     &model.Run{Status: model.RunStatusInfeasible},
			want:    ErrNoFeasibleConfiguration,
			wantMsg: ErrNoFeasibleConfiguration.Error(),
		},
		{name: "stored failure", run: &model.Run{Status: model.RunStatusFailed, Error: "disk full"}, wantMsg: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := RunError(tt.run)
			if tt.wantNil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v in chain, got %v", tt.want, err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
			}
			if got := RunStatusOf(err); got != tt.run.Status {
				t.Errorf("expected status %q to round trip, got %q", tt.run.Status, got)
			}
		})
	}
}
