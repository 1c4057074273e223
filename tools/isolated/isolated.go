/* The isolated command lists the separated source wav files of every
 * mixture subdirectory in a folder and writes them to a TSV.
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
	wavFolder = flag.String("wav_folder", "", "Folder with one subdirectory of separated wav files per mixture.")
	outFile   = flag.String("out_file", "", "TSV file to write the file list to.")
)

func main() {
	flag.Parse()
	if *wavFolder == "" || *outFile == "" {
		flag.Usage()
		os.Exit(1)
	}
	files, err := manifest.IsolatedEvents(*wavFolder)
	if err != nil {
		log.Fatal(err)
	}
	if err := manifest.WriteFileList(*outFile, files); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %v files to %v", len(files), *outFile)
}
