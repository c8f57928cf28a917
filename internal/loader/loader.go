// Package loader reads GeoJSON documents from disk with a one-shot repair
// fallback for truncated exports.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opendc/trafficmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// DefaultRepairSuffix closes the coordinates array, the geometry object and
// the document of a dump truncated mid-feature.
const DefaultRepairSuffix = "]}}"

// ErrEmptyDataset marks a document that parsed fine but contains no
// features. Distinct from LoadError so callers can tell "bad file" from
// "nothing to do".
var ErrEmptyDataset = errors.New("no features found in dataset")

// LoadError wraps a read or parse failure that survived the repair attempt.
// Fatal for the run: no partial results are produced.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses the GeoJSON file at path.
//
// Parsing is two-stage: a strict parse first, then exactly one repair
// attempt that appends repairSuffix to the raw text and reparses. Datasets
// exported from ArcGIS portals are frequently truncated mid-array, and
// appending the missing closing brackets recovers them surprisingly often.
// If the repaired parse also fails, Load returns a *LoadError.
func Load(path, repairSuffix string) (*geo.FeatureCollection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var fc geo.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Str("suffix", repairSuffix).
			Msg("Strict parse failed, attempting truncation repair")

		repaired := append(raw, repairSuffix...)
		fc = geo.FeatureCollection{}
		if repairErr := json.Unmarshal(repaired, &fc); repairErr != nil {
			return nil, &LoadError{Path: path, Err: err}
		}

		log.Info().Str("path", path).Msg("Truncated JSON repaired successfully")
	}

	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}

	return &fc, nil
}
