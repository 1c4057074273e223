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
package examples

import (
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/tfrecord"

	tf "github.com/ryszard/tfutils/proto/tensorflow/core/example"

	"github.com/google-research/reverbset/tools/audiofile"
	"github.com/google-research/reverbset/tools/labels"
	"github.com/google-research/reverbset/tools/manifest"
)

func writeSine(t *testing.T, path string, frequency float64, seconds float64, rate float64) {
	t.Helper()
	buffer := &audiofile.Buffer{Rate: rate}
	for i := 0; i < int(seconds*rate); i++ {
		buffer.Samples = append(buffer.Samples, 0.5*math.Sin(2*math.Pi*float64(i)*frequency/rate))
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := buffer.Write(path); err != nil {
		t.Fatal(err)
	}
}

func testEntry() manifest.MixEntry {
	return manifest.MixEntry{
		Mixture:  "a.wav",
		Source:   "a.wav",
		RIR:      "train/r1.wav",
		WetDB:    -3,
		Gain:     0.75,
		Duration: 1,
	}
}

func TestExample(t *testing.T) {
	dir, err := ioutil.TempDir("", "examples")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	writeSine(t, filepath.Join(dir, "a.wav"), 440, 1, 8000)

	builder := &Builder{AudioFolder: dir, SampleRate: 8000, WindowSize: 1024}
	ex, err := builder.Example(testEntry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, wanted := range map[string]*tf.Feature{
		"mixture/filename":           &tf.Feature{Kind: &tf.Feature_BytesList{BytesList: &tf.BytesList{Value: [][]byte{[]byte("a.wav")}}}},
		"mixture/rir":                &tf.Feature{Kind: &tf.Feature_BytesList{BytesList: &tf.BytesList{Value: [][]byte{[]byte("train/r1.wav")}}}},
		"mixture/wet_db":             &tf.Feature{Kind: &tf.Feature_FloatList{FloatList: &tf.FloatList{Value: []float32{-3}}}},
		"mixture/normalization_gain": &tf.Feature{Kind: &tf.Feature_FloatList{FloatList: &tf.FloatList{Value: []float32{0.75}}}},
		"mixture/duration_seconds":   &tf.Feature{Kind: &tf.Feature_FloatList{FloatList: &tf.FloatList{Value: []float32{1}}}},
	} {
		if !proto.Equal(wanted, ex.Features.Feature[name]) {
			t.Errorf("got %v at %v, wanted %v", ex.Features.Feature[name], name, wanted)
		}
	}
	power := ex.Features.Feature["spectrum/signal_power"].GetFloatList().Value
	if len(power) != 512 {
		t.Errorf("got %v spectrum bins, wanted 512", len(power))
	}
}

func TestExampleWithLabels(t *testing.T) {
	dir, err := ioutil.TempDir("", "examples")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	writeSine(t, filepath.Join(dir, "a.wav"), 440, 1, 8000)

	builder := &Builder{
		AudioFolder: dir,
		SampleRate:  8000,
		WindowSize:  1024,
		Encoder:     labels.NewEncoder([]string{"Speech", "Dog"}, 10),
	}
	events := []manifest.Event{
		{Filename: "a.wav", Onset: 0, Offset: 0.5, Label: "Speech"},
	}
	ex, err := builder.Example(testEntry(), events)
	if err != nil {
		t.Fatal(err)
	}
	strong := ex.Features.Feature["labels/strong"].GetFloatList().Value
	if len(strong) != 20 {
		t.Fatalf("got %v strong label values, wanted 10 frames x 2 classes", len(strong))
	}
	// Speech is active for the first half of the clip.
	for frame := 0; frame < 10; frame++ {
		wanted := float32(0)
		if frame < 5 {
			wanted = 1
		}
		if strong[frame*2] != wanted {
			t.Errorf("got %v for Speech in frame %v, wanted %v", strong[frame*2], frame, wanted)
		}
		if strong[frame*2+1] != 0 {
			t.Errorf("got %v for Dog in frame %v, wanted 0", strong[frame*2+1], frame)
		}
	}
	classes := ex.Features.Feature["labels/classes"].GetBytesList().Value
	if len(classes) != 2 || string(classes[0]) != "Speech" || string(classes[1]) != "Dog" {
		t.Errorf("got classes %v, wanted [Speech Dog]", classes)
	}
}

func TestShardWriter(t *testing.T) {
	dir, err := ioutil.TempDir("", "examples")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	writer := NewShardWriter(filepath.Join(dir, "train"), 2)
	for i := 0; i < 3; i++ {
		ex := &tf.Example{
			Features: &tf.Features{
				Feature: map[string]*tf.Feature{
					"mixture/filename": &tf.Feature{Kind: &tf.Feature_BytesList{BytesList: &tf.BytesList{Value: [][]byte{[]byte("a.wav")}}}},
				},
			},
		}
		if err := writer.Write(ex); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if writer.Count() != 3 {
		t.Errorf("got count %v, wanted 3", writer.Count())
	}
	for _, tc := range []struct {
		shard         string
		wantedRecords int
	}{
		{shard: "train_0000000-0000002.tfrecord", wantedRecords: 2},
		{shard: "train_0000002-0000003.tfrecord", wantedRecords: 1},
	} {
		f, err := os.Open(filepath.Join(dir, tc.shard))
		if err != nil {
			t.Fatalf("missing shard %v: %v", tc.shard, err)
		}
		records := 0
		for {
			if _, err := tfrecord.Read(f); err == io.EOF {
				break
			} else if err != nil {
				t.Fatal(err)
			}
			records++
		}
		f.Close()
		if records != tc.wantedRecords {
			t.Errorf("got %v records in %v, wanted %v", records, tc.shard, tc.wantedRecords)
		}
	}
}
