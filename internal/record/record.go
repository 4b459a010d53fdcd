package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/srcpgear/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the record file name the CAD macro reads.
const DefaultFile = "srcp.yaml"

// filePerm is the permission of written record files.
const filePerm = 0o644

var (
	// ErrInconsistentRecord is returned when the ring counts in a record do
	// not match the ones derived from the sun and planet counts.
	ErrInconsistentRecord = errors.New("inconsistent record: ring teeth do not match sun and planet teeth")

	// ErrRecordNotFound is returned when the record file does not exist.
	ErrRecordNotFound = errors.New("record file not found")
)

// Write encodes rec as YAML with two-space indentation.
func Write(w io.Writer, rec model.Record) error {
	return encode(w, rec)
}

// WriteFile writes rec to path, creating parent directories as needed.
func WriteFile(path string, rec model.Record) error {
	return writeFile(path, rec)
}

// Load reads and validates a record file.
func Load(path string) (*model.Record, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Decode reads a record and checks that its ring counts follow from the sun
// and planet counts.
func Decode(r io.Reader) (*model.Record, error) {
	var rec model.Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	tc, consistent, err := rec.ToothCounts.Teeth()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInconsistentRecord, err)
	}
	if !consistent {
		return nil, fmt.Errorf("%w: got r1=%d r2=%d, derived r1=%d r2=%d", ErrInconsistentRecord,
			rec.ToothCounts.R1Teeth, rec.ToothCounts.R2Teeth, tc.Ring1(), tc.Ring2())
	}
	return &rec, nil
}

// LoadStacks reads a two-stack file. Missing module or tooth counts are
// left nil for the stack solver.
func LoadStacks(path string) (*model.StackConfig, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg model.StackConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode stacks: %w", path, err)
	}
	return &cfg, nil
}

// WriteStacks writes a two-stack file.
func WriteStacks(path string, cfg model.StackConfig) error {
	return writeFile(path, cfg)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

func encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func writeFile(path string, v any) error {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil { //nolint:gosec // Record files are meant to be shared with the CAD macro
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
