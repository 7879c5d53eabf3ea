package spectral

import (
	"math"
)

// Decibel conversion defaults, matching the librosa amplitude_to_db contract
// the melody constants were tuned against.
const (
	// DBAmin is the floor applied before taking the logarithm
	DBAmin = 1e-5
	// DBTopDB clamps everything below (peak - DBTopDB)
	DBTopDB = 80.0
)

// AmplitudeToDB converts a time x band matrix of spectral values to decibels
// relative to a reference of 1.0, then clamps the result to topDB below the
// matrix-wide peak. Returns a newly allocated matrix.
func AmplitudeToDB(frames [][]float64, amin, topDB float64) [][]float64 {
	if len(frames) == 0 {
		return [][]float64{}
	}

	if amin <= 0 {
		amin = DBAmin
	}

	db := make([][]float64, len(frames))
	peak := math.Inf(-1)

	for t, row := range frames {
		db[t] = make([]float64, len(row))
		for i, v := range row {
			db[t][i] = 20.0 * math.Log10(math.Max(amin, v))
			if db[t][i] > peak {
				peak = db[t][i]
			}
		}
	}

	if topDB > 0 {
		floor := peak - topDB
		for t := range db {
			for i := range db[t] {
				if db[t][i] < floor {
					db[t][i] = floor
				}
			}
		}
	}

	return db
}
