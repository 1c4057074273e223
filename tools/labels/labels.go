/* labels encodes sound event labels into many-hot vectors and decodes them
 * back into labeled events.
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
package labels

import (
	"fmt"
)

// Event is a labeled stretch of frames. Onset is inclusive, Offset is
// exclusive.
type Event struct {
	Label  string
	Onset  int
	Offset int
}

// Encoder encodes class labels into vectors where 1 corresponds to presence
// of the class and 0 to absence. Multiple classes may be present at once.
type Encoder struct {
	// Labels are the classes that will be encoded, in encoding order.
	Labels []string
	// Frames is the number of frames of a segment. Only used for strong
	// encoding.
	Frames int
}

// NewEncoder returns an encoder for the given classes. frames is only used
// for strong labels.
func NewEncoder(classLabels []string, frames int) *Encoder {
	return &Encoder{Labels: append([]string(nil), classLabels...), Frames: frames}
}

func (e *Encoder) index(label string) (int, error) {
	for idx, known := range e.Labels {
		if known == label {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("unknown class label %q", label)
}

// EncodeWeak encodes a list of clip level labels into a vector with a 1 for
// each present class.
func (e *Encoder) EncodeWeak(present []string) ([]float64, error) {
	encoded := make([]float64, len(e.Labels))
	for _, label := range present {
		if label == "" {
			continue
		}
		idx, err := e.index(label)
		if err != nil {
			return nil, err
		}
		encoded[idx] = 1
	}
	return encoded, nil
}

// EmptyWeak returns the weak encoding of a clip with unknown labels, which
// is -1 for every class.
func (e *Encoder) EmptyWeak() []float64 {
	encoded := make([]float64, len(e.Labels))
	for idx := range encoded {
		encoded[idx] = -1
	}
	return encoded
}

// EncodeStrong encodes labeled events into a frames x classes matrix with a
// 1 in every frame a class is present. Event boundaries outside the segment
// are clamped to it.
func (e *Encoder) EncodeStrong(events []Event) ([][]float64, error) {
	if e.Frames <= 0 {
		return nil, fmt.Errorf("the number of frames must be set to encode strong labels")
	}
	encoded := make([][]float64, e.Frames)
	for frame := range encoded {
		encoded[frame] = make([]float64, len(e.Labels))
	}
	for _, event := range events {
		if event.Label == "" {
			continue
		}
		idx, err := e.index(event.Label)
		if err != nil {
			return nil, err
		}
		onset := event.Onset
		if onset < 0 {
			onset = 0
		}
		offset := event.Offset
		if offset > e.Frames {
			offset = e.Frames
		}
		for frame := onset; frame < offset; frame++ {
			encoded[frame][idx] = 1
		}
	}
	return encoded, nil
}

// EmptyStrong returns the strong encoding of a segment with unknown labels,
// which is -1 everywhere.
func (e *Encoder) EmptyStrong() [][]float64 {
	encoded := make([][]float64, e.Frames)
	for frame := range encoded {
		encoded[frame] = make([]float64, len(e.Labels))
		for idx := range encoded[frame] {
			encoded[frame][idx] = -1
		}
	}
	return encoded
}

// DecodeWeak returns the class labels marked present in an encoded vector.
func (e *Encoder) DecodeWeak(encoded []float64) []string {
	present := []string{}
	for idx, value := range encoded {
		if idx < len(e.Labels) && value == 1 {
			present = append(present, e.Labels[idx])
		}
	}
	return present
}

// DecodeStrong returns the labeled events of an encoded frames x classes
// matrix, one event per contiguous region of presence per class.
func (e *Encoder) DecodeStrong(encoded [][]float64) []Event {
	events := []Event{}
	for idx, label := range e.Labels {
		onset := -1
		for frame := range encoded {
			active := idx < len(encoded[frame]) && encoded[frame][idx] == 1
			if active && onset < 0 {
				onset = frame
			} else if !active && onset >= 0 {
				events = append(events, Event{Label: label, Onset: onset, Offset: frame})
				onset = -1
			}
		}
		if onset >= 0 {
			events = append(events, Event{Label: label, Onset: onset, Offset: len(encoded)})
		}
	}
	return events
}
