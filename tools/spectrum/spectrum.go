/* spectrum computes per-bin signal power of audio buffers.
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
package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// S is the spectrum of a buffer.
type S struct {
	Coeffs      []complex128 `json:"-"`
	SignalPower []float64
	BinWidth    float64
	Rate        float64
}

// Gains returns the gain of every FFT coefficient.
func (s *S) Gains() []float64 {
	invBuffer := 1.0 / float64(len(s.Coeffs))
	res := make([]float64, len(s.Coeffs))
	for idx := range s.Coeffs {
		res[idx] = cmplx.Abs(s.Coeffs[idx]) * invBuffer * 2
	}
	return res
}

// F32SignalPower returns the per-bin signal power as float32 values.
func (s *S) F32SignalPower() []float32 {
	rval := make([]float32, len(s.SignalPower))
	for i := range rval {
		rval[i] = float32(s.SignalPower[i])
	}
	return rval
}

// Compute returns the spectrum of the buffer, with the signal power of each
// bin below the Nyquist frequency in Decibel.
func Compute(buffer []float64, rate float64) *S {
	spec := &S{
		BinWidth: rate / float64(len(buffer)),
		Rate:     rate,
		Coeffs:   fft.FFTReal(buffer),
	}
	halfCoefficients := len(spec.Coeffs) / 2
	invBuffer := 1.0 / float64(len(buffer))

	spec.SignalPower = make([]float64, halfCoefficients)
	for bin := range spec.SignalPower {
		if bin == 0 {
			continue
		}
		gain := cmplx.Abs(spec.Coeffs[bin]) * invBuffer * 2
		power := 0.5 * gain * gain
		spec.SignalPower[bin] = 10 * math.Log10(power)
	}
	return spec
}
