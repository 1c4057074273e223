/* The reproduce command rebuilds the reverberated training set with the
 * reference paths, by invoking the reverberate tool.
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
	"os/exec"

	"github.com/google-research/reverbset/tools/reproduce/invoke"
)

var (
	binary       = flag.String("binary", "reverberate", "The reverberate executable to invoke.")
	datasetRoot  = flag.String("dataset_root", "dataset", "Root folder of the dataset.")
	inputFolder  = flag.String("input_folder", "dataset/audio/train/synthetic20/soundscapes", "Folder with the dry soundscapes.")
	rirFolder    = flag.String("rir_folder", "dataset/audio/rir", "Folder with the room impulse responses.")
	rirSubset    = flag.String("rir_subset", "train", "RIR subset to reverberate with.")
	outputFolder = flag.String("output_folder", "dataset/audio/train/synthetic20_reverb/soundscapes", "Folder to write the reverberated soundscapes to.")
	mixInfoFile  = flag.String("mix_info_file", "dataset/metadata/train/synthetic20_reverb/mix_info.tsv", "Mix info manifest destination.")
	sourceList   = flag.String("source_list_file", "dataset/metadata/train/synthetic20_reverb/source_list.tsv", "Source list manifest destination.")
	rirList      = flag.String("rir_list_file", "dataset/metadata/train/synthetic20_reverb/rir_list.tsv", "RIR list manifest destination.")
	// The reference run used 8 workers. The reverberate tool produces the
	// same dataset for any worker count, so this only affects throughput.
	workers = flag.Int("workers", 8, "Number of parallel reverberation workers.")
)

func main() {
	flag.Parse()

	if _, err := os.Stat(*datasetRoot); err != nil {
		log.Fatalf("dataset root %v is not usable: %v", *datasetRoot, err)
	}

	cmd := invoke.Params{
		Binary:         *binary,
		InputFolder:    *inputFolder,
		RIRFolder:      *rirFolder,
		RIRSubset:      *rirSubset,
		OutputFolder:   *outputFolder,
		MixInfoFile:    *mixInfoFile,
		SourceListFile: *sourceList,
		RIRListFile:    *rirList,
		Workers:        *workers,
	}.Command()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Printf("Running %v", cmd.Args)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		log.Fatal(err)
	}
}
