/* The reverberate command convolves a folder of dry audio with room impulse
 * responses and writes the reverberated dataset plus its manifests.
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

	"github.com/google-research/reverbset/tools/reverberate/mixer"
)

var (
	inputFolder    = flag.String("input_folder", "", "Folder with the dry wav files to reverberate, searched recursively.")
	rirFolder      = flag.String("rir_folder", "", "Folder with one subdirectory of room impulse response wavs per subset.")
	rirSubset      = flag.String("rir_subset", "train", "Subdirectory of the RIR folder to draw impulse responses from. Glob patterns are accepted.")
	outputFolder   = flag.String("output_folder", "", "Folder to write the reverberated wavs to, mirroring the input folder structure.")
	mixInfoFile    = flag.String("mix_info_file", "", "TSV file recording which source and which impulse response produced each mixture.")
	sourceListFile = flag.String("source_list_file", "", "TSV file listing the source wav files used.")
	rirListFile    = flag.String("rir_list_file", "", "TSV file listing the impulse responses used.")
	workers        = flag.Int("workers", 8, "Number of files to reverberate concurrently, 0 for no limit. The produced dataset is identical for any worker count.")
	seed           = flag.Int64("seed", 2020, "Seed folded into the per-file impulse response choice.")
	sampleRate     = flag.Float64("sample_rate", 16000, "Sample rate all audio is resampled to.")
	wetDB          = flag.Float64("wet_db", 0, "Level of the reverberated signal relative to the dry input.")
	progress       = flag.Bool("progress", true, "Show a progress bar.")
)

func main() {
	flag.Parse()
	if *inputFolder == "" || *rirFolder == "" || *outputFolder == "" || *mixInfoFile == "" || *sourceListFile == "" || *rirListFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	m, err := mixer.New(mixer.Config{
		InputFolder:    *inputFolder,
		RIRFolder:      *rirFolder,
		RIRSubset:      *rirSubset,
		OutputFolder:   *outputFolder,
		MixInfoFile:    *mixInfoFile,
		SourceListFile: *sourceListFile,
		RIRListFile:    *rirListFile,
		Workers:        *workers,
		Seed:           *seed,
		SampleRate:     *sampleRate,
		WetDB:          *wetDB,
		Progress:       *progress,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := m.Run(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Done: %v", m.Stats())
}
