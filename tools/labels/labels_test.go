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
package labels

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeWeak(t *testing.T) {
	encoder := NewEncoder([]string{"Speech", "Dog", "Blender"}, 0)
	for _, tc := range []struct {
		present      []string
		wantedVector []float64
		wantErr      bool
	}{
		{
			present:      []string{"Dog"},
			wantedVector: []float64{0, 1, 0},
		},
		{
			present:      []string{"Speech", "Blender"},
			wantedVector: []float64{1, 0, 1},
		},
		{
			present:      nil,
			wantedVector: []float64{0, 0, 0},
		},
		{
			present:      []string{"", "Speech"},
			wantedVector: []float64{1, 0, 0},
		},
		{
			present: []string{"Cat"},
			wantErr: true,
		},
	} {
		encoded, err := encoder.EncodeWeak(tc.present)
		if tc.wantErr {
			if err == nil {
				t.Errorf("encoding %+v didn't fail", tc.present)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(encoded, tc.wantedVector); diff != "" {
			t.Errorf("encoding %+v produced %+v, but wanted %+v", tc.present, encoded, tc.wantedVector)
		}
	}
}

func TestEmptyWeak(t *testing.T) {
	encoder := NewEncoder([]string{"Speech", "Dog"}, 0)
	if diff := cmp.Diff(encoder.EmptyWeak(), []float64{-1, -1}); diff != "" {
		t.Errorf("unexpected empty encoding: %v", diff)
	}
}

func TestEncodeStrong(t *testing.T) {
	encoder := NewEncoder([]string{"Speech", "Dog"}, 4)
	for _, tc := range []struct {
		events       []Event
		wantedMatrix [][]float64
		wantErr      bool
	}{
		{
			events: []Event{{Label: "Speech", Onset: 1, Offset: 3}},
			wantedMatrix: [][]float64{
				{0, 0},
				{1, 0},
				{1, 0},
				{0, 0},
			},
		},
		{
			events: []Event{
				{Label: "Speech", Onset: 0, Offset: 2},
				{Label: "Dog", Onset: -1, Offset: 10},
			},
			wantedMatrix: [][]float64{
				{1, 1},
				{1, 1},
				{0, 1},
				{0, 1},
			},
		},
		{
			events:  []Event{{Label: "Cat", Onset: 0, Offset: 1}},
			wantErr: true,
		},
	} {
		encoded, err := encoder.EncodeStrong(tc.events)
		if tc.wantErr {
			if err == nil {
				t.Errorf("encoding %+v didn't fail", tc.events)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(encoded, tc.wantedMatrix); diff != "" {
			t.Errorf("encoding %+v produced %+v, but wanted %+v", tc.events, encoded, tc.wantedMatrix)
		}
	}
}

func TestEncodeStrongRequiresFrames(t *testing.T) {
	encoder := NewEncoder([]string{"Speech"}, 0)
	if _, err := encoder.EncodeStrong(nil); err == nil {
		t.Errorf("strong encoding without a frame count didn't fail")
	}
}

func TestDecodeWeak(t *testing.T) {
	encoder := NewEncoder([]string{"Speech", "Dog", "Blender"}, 0)
	decoded := encoder.DecodeWeak([]float64{1, 0, 1})
	if diff := cmp.Diff(decoded, []string{"Speech", "Blender"}); diff != "" {
		t.Errorf("unexpected decoded labels: %v", diff)
	}
}

func TestDecodeStrongRoundTrip(t *testing.T) {
	encoder := NewEncoder([]string{"Speech", "Dog"}, 6)
	events := []Event{
		{Label: "Speech", Onset: 0, Offset: 2},
		{Label: "Speech", Onset: 4, Offset: 6},
		{Label: "Dog", Onset: 1, Offset: 5},
	}
	encoded, err := encoder.EncodeStrong(events)
	if err != nil {
		t.Fatal(err)
	}
	decoded := encoder.DecodeStrong(encoded)
	if diff := cmp.Diff(decoded, events); diff != "" {
		t.Errorf("decoding didn't round trip: %v", diff)
	}
}
