package acquisition

import "dass/pkg/utils/randutil"

// standInVector synthesizes one raw value per channel so conditioning,
// buffering and logging run without hardware attached.
func standInVector(channelCount int) []float64 {
	vector := make([]float64, channelCount)
	for i := range vector {
		vector[i] = randutil.Float64n(standInSpan)
	}
	return vector
}
