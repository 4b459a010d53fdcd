package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/record"
)

// writeStacks writes a stack file and returns its path.
func writeStacks(t *testing.T, dir, stack2 string) string {
	t.Helper()

	content := `stack_1_params:
  module: 0.5
  ring_teeth: 54
  planet_teeth: 21
  pressure_angle: 20
  profile_shift: 0
stack_2_params:
` + stack2
	path := filepath.Join(dir, "stacks.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write stacks: %v", err)
	}
	return path
}

// TestRunSolveCmd tests the multi-module solver command.
func TestRunSolveCmd(t *testing.T) {
	t.Parallel()

	t.Run("solves the missing module", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeStacks(t, dir, "  ring_teeth: 36\n  planet_teeth: 14\n  pressure_angle: 20\n  profile_shift: 0\n")
		out := filepath.Join(dir, "solved.yaml")

		output, err := executeRoot(t, "solve", in, "-o", out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Solved stack_2_params.module = 0.75") {
			t.Errorf("expected solved module, got:\n%s", output)
		}
		if !strings.Contains(output, "Stage 1 sun:     12 teeth (assembles") {
			t.Errorf("expected stage 1 check, got:\n%s", output)
		}

		solved, err := record.LoadStacks(out)
		if err != nil {
			t.Fatalf("failed to load solved stacks: %v", err)
		}
		if solved.Stack2.Module == nil || *solved.Stack2.Module != 0.75 {
			t.Errorf("expected stack 2 module 0.75, got %v", solved.Stack2.Module)
		}
	})

	t.Run("rounded tooth count leaves a mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeStacks(t, dir, "  module: 0.6\n  planet_teeth: 12\n  pressure_angle: 20\n  profile_shift: 0\n")
		out := filepath.Join(dir, "solved.yaml")

		output, err := executeRoot(t, "solve", in, "-o", out)
		if !errors.Is(err, geometry.ErrCarrierMismatch) {
			t.Fatalf("expected ErrCarrierMismatch, got %v", err)
		}
		if !strings.Contains(output, "Solved stack_2_params.ring_teeth = 40") {
			t.Errorf("expected rounded ring count, got:\n%s", output)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Error("nothing must be written on a carrier mismatch")
		}
	})

	t.Run("too many missing parameters", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeStacks(t, dir, "  planet_teeth: 12\n  pressure_angle: 20\n  profile_shift: 0\n")

		_, err := executeRoot(t, "solve", in, "-o", filepath.Join(dir, "solved.yaml"))
		if !errors.Is(err, geometry.ErrTooManyMissing) {
			t.Errorf("expected ErrTooManyMissing, got %v", err)
		}
	})

	t.Run("requires a file argument", func(t *testing.T) {
		t.Parallel()

		if _, err := executeRoot(t, "solve"); err == nil {
			t.Error("expected an error without arguments")
		}
	})
}
