package search

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nao1215/srcpgear/internal/model"
	"golang.org/x/crypto/sha3"
)

// fingerprintVersion changes whenever the filter or scoring changes, so old
// cached runs stop matching.
const fingerprintVersion = 1

// fingerprintInput is everything that decides the result of a run.
type fingerprintInput struct {
	Version            int                 `json:"version"`
	Request            model.SearchRequest `json:"request"`
	Bounds             Bounds              `json:"bounds"`
	AddendumCorrection float64             `json:"addendum_correction"`
	ModuleIncrement    float64             `json:"module_increment"`
	SlackPercent       float64             `json:"slack_percent"`
}

// Fingerprint returns the hex SHA3-256 digest identifying req under this
// engine's bounds and resolver constants. Two runs with the same fingerprint
// produce the same outcome, which makes it usable as a cache key.
func (e *Engine) Fingerprint(req model.SearchRequest) (string, error) {
	if req.PlanetCount == 0 {
		req.PlanetCount = model.DefaultPlanetCount
	}
	data, err := json.Marshal(fingerprintInput{
		Version:            fingerprintVersion,
		Request:            req,
		Bounds:             e.bounds,
		AddendumCorrection: e.resolver.AddendumCorrection,
		ModuleIncrement:    e.resolver.Increment,
		SlackPercent:       e.resolver.SlackPercent,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint input: %w", err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
