/* examples converts reverberated mixtures into TFExamples and writes them
 * to sharded TFRecord files.
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
package examples

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	proto1 "github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/tfrecord"
	"google.golang.org/protobuf/proto"

	tf "github.com/ryszard/tfutils/proto/tensorflow/core/example"

	"github.com/google-research/reverbset/tools/audiofile"
	"github.com/google-research/reverbset/tools/labels"
	"github.com/google-research/reverbset/tools/manifest"
	"github.com/google-research/reverbset/tools/spectrum"
)

// Builder builds TFExamples from mix info entries.
type Builder struct {
	// AudioFolder contains the mixture wavs named by the mix info.
	AudioFolder string
	// SampleRate is the rate mixtures are resampled to before analysis.
	SampleRate float64
	// WindowSize is the number of trailing samples the spectrum features
	// are computed on. Shorter mixtures are zero padded on the left.
	WindowSize int
	// Encoder, when set, adds a many-hot strong label matrix encoded from
	// the events of the mixture.
	Encoder *labels.Encoder
}

func bytesFeature(val string) *tf.Feature {
	return &tf.Feature{Kind: &tf.Feature_BytesList{BytesList: &tf.BytesList{Value: [][]byte{[]byte(val)}}}}
}

func floatFeature(vals ...float32) *tf.Feature {
	return &tf.Feature{Kind: &tf.Feature_FloatList{FloatList: &tf.FloatList{Value: vals}}}
}

func (b *Builder) window(buffer *audiofile.Buffer) []float64 {
	window := make([]float64, b.WindowSize)
	offset := b.WindowSize - len(buffer.Samples)
	if offset < 0 {
		copy(window, buffer.Samples[len(buffer.Samples)-b.WindowSize:])
	} else {
		copy(window[offset:], buffer.Samples)
	}
	return window
}

func (b *Builder) strongLabels(entry manifest.MixEntry, events []manifest.Event, clipSeconds float64) ([]float32, error) {
	frameEvents := make([]labels.Event, len(events))
	for idx, event := range events {
		frameEvents[idx] = labels.Event{
			Label:  event.Label,
			Onset:  int(math.Round(event.Onset / clipSeconds * float64(b.Encoder.Frames))),
			Offset: int(math.Round(event.Offset / clipSeconds * float64(b.Encoder.Frames))),
		}
	}
	encoded, err := b.Encoder.EncodeStrong(frameEvents)
	if err != nil {
		return nil, fmt.Errorf("unable to encode labels of %v: %v", entry.Mixture, err)
	}
	flat := make([]float32, 0, b.Encoder.Frames*len(b.Encoder.Labels))
	for _, frame := range encoded {
		for _, val := range frame {
			flat = append(flat, float32(val))
		}
	}
	return flat, nil
}

// Example builds the TFExample of one mixture.
func (b *Builder) Example(entry manifest.MixEntry, events []manifest.Event) (*tf.Example, error) {
	buffer, err := audiofile.Read(filepath.Join(b.AudioFolder, entry.Mixture), b.SampleRate)
	if err != nil {
		return nil, err
	}
	spec := spectrum.Compute(b.window(buffer), b.SampleRate)
	ex := &tf.Example{
		Features: &tf.Features{
			Feature: map[string]*tf.Feature{
				"mixture/filename":           bytesFeature(entry.Mixture),
				"mixture/source":             bytesFeature(entry.Source),
				"mixture/rir":                bytesFeature(entry.RIR),
				"mixture/wet_db":             floatFeature(float32(entry.WetDB)),
				"mixture/normalization_gain": floatFeature(float32(entry.Gain)),
				"mixture/duration_seconds":   floatFeature(float32(buffer.Duration())),
				"spectrum/signal_power":      floatFeature(spec.F32SignalPower()...),
			},
		},
	}
	if b.Encoder != nil {
		flat, err := b.strongLabels(entry, events, buffer.Duration())
		if err != nil {
			return nil, err
		}
		classes := make([][]byte, len(b.Encoder.Labels))
		for idx, label := range b.Encoder.Labels {
			classes[idx] = []byte(label)
		}
		ex.Features.Feature["labels/strong"] = floatFeature(flat...)
		ex.Features.Feature["labels/classes"] = &tf.Feature{Kind: &tf.Feature_BytesList{BytesList: &tf.BytesList{Value: classes}}}
	}
	return ex, nil
}

// ShardWriter writes TFExamples to TFRecord shards of a fixed size, named
// prefix_NNNNNNN-NNNNNNN.tfrecord by the example range they hold.
type ShardWriter struct {
	prefix  string
	size    int
	count   int
	pending [][]byte
}

// NewShardWriter returns a writer that puts shardSize examples in each
// shard.
func NewShardWriter(prefix string, shardSize int) *ShardWriter {
	return &ShardWriter{prefix: prefix, size: shardSize}
}

func (s *ShardWriter) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	path := fmt.Sprintf("%s_%07d-%07d.tfrecord", s.prefix, s.count-len(s.pending), s.count)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, encoded := range s.pending {
		if err := tfrecord.Write(f, encoded); err != nil {
			return err
		}
	}
	s.pending = nil
	return nil
}

// Write adds one example, flushing a shard when it is full.
func (s *ShardWriter) Write(example *tf.Example) error {
	encoded, err := proto.Marshal(proto1.MessageV2(example))
	if err != nil {
		return err
	}
	s.pending = append(s.pending, encoded)
	s.count++
	if len(s.pending) >= s.size {
		return s.flush()
	}
	return nil
}

// Close flushes the remaining examples into a final, possibly shorter,
// shard.
func (s *ShardWriter) Close() error {
	return s.flush()
}

// Count returns the number of examples written so far.
func (s *ShardWriter) Count() int {
	return s.count
}
