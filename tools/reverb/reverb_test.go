/*
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
	"math"
	"testing"
)

const (
	tolerance = 1e-9
)

func eqTol(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if math.Abs(a[idx]-b[idx]) > tol {
			return false
		}
	}
	return true
}

func makeSine(frequency float64, gain float64, rate float64, length int) []float64 {
	result := make([]float64, length)
	for i := range result {
		result[i] = gain * math.Sin(2*math.Pi*float64(i)*frequency/rate)
	}
	return result
}

func TestConvolve(t *testing.T) {
	for _, tc := range []struct {
		signal       []float64
		kernel       []float64
		wantedResult []float64
	}{
		{
			signal:       []float64{1, 2, 3},
			kernel:       []float64{1},
			wantedResult: []float64{1, 2, 3},
		},
		{
			signal:       []float64{1, 2, 3},
			kernel:       []float64{0, 1},
			wantedResult: []float64{0, 1, 2, 3},
		},
		{
			signal:       []float64{1, 1},
			kernel:       []float64{1, 1},
			wantedResult: []float64{1, 2, 1},
		},
		{
			signal:       []float64{1, 0, -1},
			kernel:       []float64{0.5, 0.5},
			wantedResult: []float64{0.5, 0.5, -0.5, -0.5},
		},
	} {
		result := Convolve(tc.signal, tc.kernel)
		if !eqTol(result, tc.wantedResult, tolerance) {
			t.Errorf("convolving %+v with %+v produced %+v, but wanted %+v", tc.signal, tc.kernel, result, tc.wantedResult)
		}
	}
}

func TestApplyIdentity(t *testing.T) {
	dry := makeSine(100, 0.5, 8000, 800)
	result, err := Apply(dry, []float64{1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !eqTol(result.Samples, dry, 1e-6) {
		t.Errorf("reverberating with a unit impulse at 0 dB changed the signal")
	}
	if result.Gain != 1.0 {
		t.Errorf("got normalization gain %v, wanted 1.0", result.Gain)
	}
}

func TestApplyDelayKeepsPower(t *testing.T) {
	dry := makeSine(100, 0.5, 8000, 800)
	rir := make([]float64, 32)
	rir[16] = 0.25
	result, err := Apply(dry, rir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Samples) != len(dry) {
		t.Fatalf("got %v samples, wanted %v", len(result.Samples), len(dry))
	}
	dryPower := power(dry)
	wetPower := power(result.Samples)
	if math.Abs(dryPower-wetPower) > 0.01 {
		t.Errorf("got wet power %v, wanted dry power %v", wetPower, dryPower)
	}
}

func TestApplyNormalizes(t *testing.T) {
	dry := makeSine(100, 0.9, 8000, 800)
	result, err := Apply(dry, []float64{1}, 12)
	if err != nil {
		t.Fatal(err)
	}
	if result.Gain >= 1.0 {
		t.Errorf("got normalization gain %v, wanted a gain below 1.0", result.Gain)
	}
	peak := 0.0
	for _, val := range result.Samples {
		if abs := math.Abs(val); abs > peak {
			peak = abs
		}
	}
	if math.Abs(peak-1.0) > 1e-6 {
		t.Errorf("got peak %v after normalization, wanted 1.0", peak)
	}
}

func TestApplyErrors(t *testing.T) {
	if _, err := Apply(nil, []float64{1}, 0); err == nil {
		t.Errorf("reverberating an empty signal didn't fail")
	}
	if _, err := Apply([]float64{1}, nil, 0); err == nil {
		t.Errorf("reverberating with an empty impulse response didn't fail")
	}
}
