/* The tfexport command converts a reverberated dataset into TFRecord shards
 * of TFExamples, using its mix info manifest.
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
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/cheggaaa/pb"

	"github.com/google-research/reverbset/tools/labels"
	"github.com/google-research/reverbset/tools/manifest"
	"github.com/google-research/reverbset/tools/tfexport/examples"
)

var (
	audioFolder  = flag.String("audio_folder", "", "Folder with the mixture wavs named by the mix info manifest.")
	mixInfoFile  = flag.String("mix_info_file", "", "Mix info manifest of the dataset to export.")
	eventsFile   = flag.String("events_file", "", "Optional TSV with the labeled events of each mixture.")
	eventClasses = flag.String("event_classes", "", "Comma separated class labels, required with an events file.")
	labelFrames  = flag.Int("label_frames", 156, "Number of label frames each clip is divided into.")
	sampleRate   = flag.Float64("sample_rate", 16000, "Sample rate mixtures are resampled to before analysis.")
	windowSize   = flag.Int("window_size", 2048, "Number of trailing samples the spectrum features are computed on.")
	shardSize    = flag.Int("shard_size", 20, "How many examples to put in each shard.")
	filePrefix   = flag.String("file_prefix", "", "With what prefix to save the output shards.")
)

func main() {
	flag.Parse()
	if *audioFolder == "" || *mixInfoFile == "" || *filePrefix == "" {
		flag.Usage()
		os.Exit(1)
	}

	entries, err := manifest.ReadMixInfo(*mixInfoFile)
	if err != nil {
		log.Fatal(err)
	}

	builder := &examples.Builder{
		AudioFolder: *audioFolder,
		SampleRate:  *sampleRate,
		WindowSize:  *windowSize,
	}
	eventsByFile := map[string][]manifest.Event{}
	if *eventsFile != "" {
		if *eventClasses == "" {
			log.Fatal("an events file needs event classes to encode")
		}
		events, err := manifest.ReadEvents(*eventsFile)
		if err != nil {
			log.Fatal(err)
		}
		eventsByFile = manifest.EventsByFile(events)
		builder.Encoder = labels.NewEncoder(strings.Split(*eventClasses, ","), *labelFrames)
	}

	writer := examples.NewShardWriter(*filePrefix, *shardSize)
	bar := pb.StartNew(len(entries)).Prefix("Exporting")
	for _, entry := range entries {
		example, err := builder.Example(entry, eventsByFile[entry.Mixture])
		if err != nil {
			log.Fatalf("Exporting %v failed: %v", entry.Mixture, err)
		}
		if err := writer.Write(example); err != nil {
			log.Fatal(err)
		}
		bar.Increment()
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
	bar.Finish()
	log.Printf("Wrote %v examples", writer.Count())
}
