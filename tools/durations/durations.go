/* The durations command writes a TSV with the filename and duration of
 * every wav file in a folder.
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

	"github.com/google-research/reverbset/tools/manifest"
)

var (
	audioFolder = flag.String("audio_folder", "", "Folder with the wav files to measure.")
	outFile     = flag.String("out_file", "", "TSV file to write the durations to. Defaults to the metadata path matching the audio folder.")
)

func main() {
	flag.Parse()
	if *audioFolder == "" {
		flag.Usage()
		os.Exit(1)
	}
	out := *outFile
	if out == "" {
		out = manifest.AudioDirToMetaPath(*audioFolder)
	}
	durations, err := manifest.WavDurations(*audioFolder)
	if err != nil {
		log.Fatal(err)
	}
	if err := manifest.WriteDurations(out, durations); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %v durations to %v", len(durations), out)
}
