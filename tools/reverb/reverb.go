/* reverb convolves dry audio buffers with room impulse responses.
 *
 * Copyright 2020 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 *     Unless required by applicable law or agreed to in writing, software
 *     distributed under the License is distributed on an "AS IS" BASIS,
 *     WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *     See the License for the specific language governing permissions and
 *     limitations under the License.
 */
package reverb

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Result is a reverberated buffer.
type Result struct {
	// Samples is the reverberated signal, truncated to the dry length.
	Samples []float64
	// Gain is the normalization gain that was applied to keep the peak
	// within full scale. 1.0 when no normalization was needed.
	Gain float64
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// Convolve returns the linear convolution of signal and kernel, of length
// len(signal)+len(kernel)-1.
func Convolve(signal, kernel []float64) []float64 {
	n := len(signal) + len(kernel) - 1
	size := nextPowerOfTwo(n)
	paddedSignal := make([]float64, size)
	copy(paddedSignal, signal)
	paddedKernel := make([]float64, size)
	copy(paddedKernel, kernel)
	signalCoeffs := fft.FFTReal(paddedSignal)
	kernelCoeffs := fft.FFTReal(paddedKernel)
	for idx := range signalCoeffs {
		signalCoeffs[idx] *= kernelCoeffs[idx]
	}
	product := fft.IFFT(signalCoeffs)
	result := make([]float64, n)
	for idx := range result {
		result[idx] = real(product[idx])
	}
	return result
}

// power returns the signal power ( avg(sum(v^2)) - avg(v)^2 ) of the buffer.
func power(buffer []float64) float64 {
	sum := 0.0
	sumOfSquares := 0.0
	for _, val := range buffer {
		sum += val
		sumOfSquares += val * val
	}
	n := float64(len(buffer))
	mean := sum / n
	return sumOfSquares/n - mean*mean
}

// Apply convolves dry with the impulse response rir and returns the
// reverberated signal truncated to the dry length. The result is scaled to
// the power of the dry signal plus wetDB Decibel, and peak normalized when
// that scaling leaves samples outside full scale.
func Apply(dry, rir []float64, wetDB float64) (*Result, error) {
	if len(dry) == 0 {
		return nil, fmt.Errorf("unable to reverberate an empty signal")
	}
	if len(rir) == 0 {
		return nil, fmt.Errorf("unable to reverberate with an empty impulse response")
	}
	wet := Convolve(dry, rir)[:len(dry)]
	dryPower := power(dry)
	wetPower := power(wet)
	if wetPower > 0 && dryPower > 0 {
		levelMatch := math.Sqrt(dryPower/wetPower) * math.Pow(10, wetDB/20.0)
		for idx := range wet {
			wet[idx] *= levelMatch
		}
	}
	result := &Result{Samples: wet, Gain: 1.0}
	peak := 0.0
	for _, val := range wet {
		if abs := math.Abs(val); abs > peak {
			peak = abs
		}
	}
	if peak > 1.0 {
		result.Gain = 1.0 / peak
		for idx := range wet {
			wet[idx] *= result.Gain
		}
	}
	return result, nil
}
