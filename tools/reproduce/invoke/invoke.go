/* invoke builds the command line of the reverberate tool.
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
package invoke

import (
	"fmt"
	"os/exec"
)

// Params holds one reverberate invocation: the folders, the manifest
// destinations and the requested parallelism.
type Params struct {
	// Binary is the reverberate executable.
	Binary string
	// InputFolder contains the dry audio.
	InputFolder string
	// RIRFolder and RIRSubset select the impulse responses.
	RIRFolder string
	RIRSubset string
	// OutputFolder receives the reverberated audio.
	OutputFolder string
	// MixInfoFile, SourceListFile and RIRListFile are the manifest
	// destinations.
	MixInfoFile    string
	SourceListFile string
	RIRListFile    string
	// Workers is the requested parallelism.
	Workers int
}

// Args returns the command line arguments for the reverberate tool.
func (p Params) Args() []string {
	return []string{
		"-input_folder", p.InputFolder,
		"-rir_folder", p.RIRFolder,
		"-rir_subset", p.RIRSubset,
		"-output_folder", p.OutputFolder,
		"-mix_info_file", p.MixInfoFile,
		"-source_list_file", p.SourceListFile,
		"-rir_list_file", p.RIRListFile,
		"-workers", fmt.Sprint(p.Workers),
	}
}

// Command returns the reverberate invocation as an executable command.
// Stdout and stderr wiring is left to the caller.
func (p Params) Command() *exec.Cmd {
	return exec.Command(p.Binary, p.Args()...)
}
