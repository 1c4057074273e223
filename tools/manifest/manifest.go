/* manifest reads and writes the TSV bookkeeping files of a reverberated
 * dataset: mix info, file lists, wav durations and labeled events.
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
package manifest

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google-research/reverbset/tools/audiofile"
)

// MixEntry records which source audio and which impulse response were
// combined to produce one reverberated mixture.
type MixEntry struct {
	// Mixture is the produced file, relative to the output folder.
	Mixture string
	// Source is the dry input file, relative to the input folder.
	Source string
	// RIR is the impulse response file, relative to the RIR folder.
	RIR string
	// WetDB is the level of the reverberated signal relative to the dry
	// input.
	WetDB float64
	// Gain is the normalization gain applied to keep the mixture within
	// full scale.
	Gain float64
	// Duration is the mixture duration in seconds.
	Duration float64
}

// Duration is the duration in seconds of one wav file.
type Duration struct {
	Filename string
	Seconds  float64
}

var mixInfoHeader = []string{"mixture_filename", "source_filename", "rir_filename", "wet_db", "normalization_gain", "duration"}

func writeTSV(path string, records [][]string) error {
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
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return nil
}

func readTSV(path string, wantedFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = wantedFields
	return r.ReadAll()
}

// WriteMixInfo writes the mix info manifest for the given entries.
func WriteMixInfo(path string, entries []MixEntry) error {
	records := [][]string{mixInfoHeader}
	for _, entry := range entries {
		records = append(records, []string{
			entry.Mixture,
			entry.Source,
			entry.RIR,
			strconv.FormatFloat(entry.WetDB, 'f', 1, 64),
			strconv.FormatFloat(entry.Gain, 'f', 6, 64),
			strconv.FormatFloat(entry.Duration, 'f', 3, 64),
		})
	}
	return writeTSV(path, records)
}

// ReadMixInfo reads a mix info manifest.
func ReadMixInfo(path string) ([]MixEntry, error) {
	records, err := readTSV(path, len(mixInfoHeader))
	if err != nil {
		return nil, err
	}
	entries := []MixEntry{}
	for idx, record := range records {
		if idx == 0 {
			continue
		}
		entry := MixEntry{Mixture: record[0], Source: record[1], RIR: record[2]}
		if entry.WetDB, err = strconv.ParseFloat(record[3], 64); err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		if entry.Gain, err = strconv.ParseFloat(record[4], 64); err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		if entry.Duration, err = strconv.ParseFloat(record[5], 64); err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteFileList writes a one column filename manifest.
func WriteFileList(path string, files []string) error {
	records := [][]string{{"filename"}}
	for _, file := range files {
		records = append(records, []string{file})
	}
	return writeTSV(path, records)
}

// ReadFileList reads a one column filename manifest.
func ReadFileList(path string) ([]string, error) {
	records, err := readTSV(path, 1)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for idx, record := range records {
		if idx == 0 {
			continue
		}
		files = append(files, record[0])
	}
	return files, nil
}

// WavDurations returns the filename and duration of every wav file directly
// in audioDir, sorted by filename.
func WavDurations(audioDir string) ([]Duration, error) {
	matches, err := filepath.Glob(filepath.Join(audioDir, "*.wav"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	durations := []Duration{}
	for _, match := range matches {
		seconds, err := audiofile.Duration(match)
		if err != nil {
			return nil, err
		}
		durations = append(durations, Duration{Filename: filepath.Base(match), Seconds: seconds})
	}
	return durations, nil
}

// WriteDurations writes a filename and duration manifest.
func WriteDurations(path string, durations []Duration) error {
	records := [][]string{{"filename", "duration"}}
	for _, duration := range durations {
		records = append(records, []string{duration.Filename, strconv.FormatFloat(duration.Seconds, 'f', 1, 64)})
	}
	return writeTSV(path, records)
}

// ReadDurations reads a filename and duration manifest.
func ReadDurations(path string) ([]Duration, error) {
	records, err := readTSV(path, 2)
	if err != nil {
		return nil, err
	}
	durations := []Duration{}
	for idx, record := range records {
		if idx == 0 {
			continue
		}
		seconds, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		durations = append(durations, Duration{Filename: record[0], Seconds: seconds})
	}
	return durations, nil
}

// DurationsFor returns the durations table next to the metadata file at
// metaPath (metaPath with a _durations suffix before the extension),
// generating it from audioDir when it doesn't exist yet.
func DurationsFor(metaPath, audioDir string) ([]Duration, error) {
	ext := filepath.Ext(metaPath)
	durationsPath := strings.TrimSuffix(metaPath, ext) + "_durations" + ext
	if _, err := os.Stat(durationsPath); err == nil {
		return ReadDurations(durationsPath)
	}
	durations, err := WavDurations(audioDir)
	if err != nil {
		return nil, err
	}
	if err := WriteDurations(durationsPath, durations); err != nil {
		return nil, err
	}
	return durations, nil
}

// IsolatedEvents lists the wav files of every per-mixture subdirectory of
// wavFolder, keeping the subdirectory structure in the returned paths.
// Files that aren't wav files are skipped with a warning.
func IsolatedEvents(wavFolder string) ([]string, error) {
	entries, err := readDirNames(wavFolder)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, name := range entries {
		dir := filepath.Join(wavFolder, name)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if filepath.Ext(path) != ".wav" {
				log.Printf("not only wav audio files in the separated source folder, %v not added to the list", filepath.Base(path))
				return nil
			}
			rel, err := filepath.Rel(wavFolder, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func readDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// MetaPathToAudioDir returns the audio dir matching a metadata TSV path.
func MetaPathToAudioDir(tsvPath string) string {
	replaced := strings.Replace(tsvPath, "metadata", "audio", -1)
	return strings.TrimSuffix(replaced, filepath.Ext(replaced))
}

// AudioDirToMetaPath returns the metadata TSV path matching an audio dir.
func AudioDirToMetaPath(audioDir string) string {
	return strings.Replace(audioDir, "audio", "metadata", -1) + ".tsv"
}
