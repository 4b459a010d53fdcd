package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/srcpgear/internal/config"
	"github.com/nao1215/srcpgear/internal/model"
	"github.com/nao1215/srcpgear/internal/record"
	"github.com/nao1215/srcpgear/internal/search"
)

// TestNewOptimizeCmd tests the optimize command creation.
func TestNewOptimizeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewOptimizeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Name() != "optimize" {
			t.Errorf("expected name 'optimize', got %q", cmd.Name())
		}
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"tolerance", "t", "5"},
		{"min-error", "e", "false"},
		{"module", "m", "0.5"},
		{"od", "", "0"},
		{"pressure-angle", "a", "20"},
		{"profile-shift", "s", "0.0508"},
		{"nonstandard-module", "", "false"},
		{"config", "c", ""},
		{"output", "o", "srcp.yaml"},
		{"json", "j", "false"},
		{"markdown", "", "false"},
		{"report-file", "", ""},
		{"batch", "b", "false"},
		{"no-cache", "", "false"},
		{"no-save", "", "false"},
	}
	for _, tt := range flags {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestRunOptimizeCmd tests optimize end to end with a temporary history.
func TestRunOptimizeCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes record and report", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		output, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-o", recPath, "-w", "2", "66.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{"Status:         Solved", "Sun:       8", "Actual ratio: 67.5"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}

		rec, err := record.Load(recPath)
		if err != nil {
			t.Fatalf("failed to load record: %v", err)
		}
		tc := rec.ToothCounts
		if tc.SunTeeth != 8 || tc.P1Teeth != 10 || tc.R1Teeth != 28 || tc.P2Teeth != 9 || tc.R2Teeth != 27 {
			t.Errorf("unexpected tooth counts %+v", tc)
		}
		if rec.GearRatios.ActualRatio != 67.5 {
			t.Errorf("expected ratio 67.5, got %v", rec.GearRatios.ActualRatio)
		}
	})

	t.Run("repeated request is served from history", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		args := []string{"optimize", "--db-dir", dbDir, "-o", recPath, "12.5"}
		if _, err := executeRoot(t, args...); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output, err := executeRoot(t, args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "(cached)") {
			t.Errorf("expected cached run, got:\n%s", output)
		}

		output, err = executeRoot(t, append([]string{"optimize", "--no-cache"}, args[1:]...)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(output, "(cached)") {
			t.Error("--no-cache must search again")
		}
	})

	t.Run("no solution within tolerance", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		output, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-o", recPath, "-t", "0", "31.41592653589793")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(output, "No Solution") || !strings.Contains(output, "--min-error") {
			t.Errorf("expected no-solution report with hint, got:\n%s", output)
		}
		if _, statErr := os.Stat(recPath); !os.IsNotExist(statErr) {
			t.Error("no record must be written without a solution")
		}
		if !errors.Is(err, search.ErrNoSolutionWithinTolerance) {
			t.Errorf("expected ErrNoSolutionWithinTolerance, got %v", err)
		}

		output, err = executeRoot(t, "optimize", "--db-dir", dbDir, "-o", recPath, "-t", "0", "31.41592653589793")
		if !strings.Contains(output, "(cached)") {
			t.Errorf("expected the stored run, got:\n%s", output)
		}
		if !errors.Is(err, search.ErrNoSolutionWithinTolerance) {
			t.Errorf("stored run: expected ErrNoSolutionWithinTolerance, got %v", err)
		}
	})

	t.Run("target outer diameter sizes the module", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		if _, err := executeRoot(t, "optimize", "--no-save", "--db-dir", dbDir, "-o", recPath, "--od", "30", "66.1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rec, err := record.Load(recPath)
		if err != nil {
			t.Fatalf("failed to load record: %v", err)
		}
		if rec.GearParameters.Module != 1.2 {
			t.Errorf("expected module 1.2, got %v", rec.GearParameters.Module)
		}
	})

	t.Run("JSON report", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		output, err := executeRoot(t, "optimize", "--no-save", "--db-dir", dbDir, "-o", recPath, "-j", "--min-error", "40")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Run struct {
				Status  string `json:"status"`
				Request struct {
					Objective string `json:"objective"`
				} `json:"request"`
			} `json:"run"`
		}
		if err := json.Unmarshal([]byte(output), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if got.Run.Status != "solved" || got.Run.Request.Objective != "min_error" {
			t.Errorf("unexpected run %+v", got.Run)
		}
	})

	t.Run("batch writes one record per target", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		reportPath := filepath.Join(filepath.Dir(recPath), "reports", "batch.md")
		_, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-o", recPath, "-b", "--markdown",
			"--report-file", reportPath, "12.5", "40")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, name := range []string{"srcp_12.5.yaml", "srcp_40.yaml"} {
			if _, err := record.Load(filepath.Join(filepath.Dir(recPath), name)); err != nil {
				t.Errorf("expected record %s: %v", name, err)
			}
		}
		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if strings.Count(string(content), "# srcpgear Optimisation Report") != 2 {
			t.Errorf("expected two reports, got:\n%s", content)
		}
	})

	t.Run("module and outer diameter conflict", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := testDirs(t)
		_, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-m", "0.5", "--od", "30", "66.1")
		if !errors.Is(err, model.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("ratio must be a number", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := testDirs(t)
		_, err := executeRoot(t, "optimize", "--db-dir", dbDir, "sixty")
		if !errors.Is(err, model.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := testDirs(t)
		_, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-j", "--markdown", "66.1")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := testDirs(t)
		_, err := executeRoot(t, "optimize", "--db-dir", dbDir, "-c", filepath.Join(dbDir, "missing.yaml"), "66.1")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("config file bounds apply", func(t *testing.T) {
		t.Parallel()

		dbDir, recPath := testDirs(t)
		cfgPath := filepath.Join(filepath.Dir(recPath), ".srcpgear")
		// Only sun 8 and planets 9..10 remain; (8, 9, 9) fails to assemble.
		content := "search:\n  bounds:\n    max_sun: 8\n    min_planet: 9\n    max_planet: 10\n"
		if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		output, err := executeRoot(t, "optimize", "--no-save", "--db-dir", dbDir, "-o", recPath, "-c", cfgPath, "-e", "66.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Evaluated:        4") {
			t.Errorf("expected a 1x2x2 box, got:\n%s", output)
		}
	})
}

func TestRecordPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base  string
		ratio float64
		multi bool
		want  string
	}{
		{"srcp.yaml", 66.1, false, "srcp.yaml"},
		{"srcp.yaml", 66.1, true, "srcp_66.1.yaml"},
		{"out/gear.yml", 40, true, "out/gear_40.yml"},
		{"noext", 12.5, true, "noext_12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := recordPath(tt.base, tt.ratio, tt.multi); got != tt.want {
				t.Errorf("recordPath(%q, %v, %v) = %q, want %q", tt.base, tt.ratio, tt.multi, got, tt.want)
			}
		})
	}
}
