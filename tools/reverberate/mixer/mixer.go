/* mixer drives the reverberation pipeline: it scans dry input wavs, assigns
 * each one a room impulse response from the selected subset, convolves them
 * in parallel and writes the reverberated wavs plus the reproducibility
 * manifests.
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
package mixer

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v2"
	"github.com/cheggaaa/pb"

	"github.com/google-research/reverbset/tools/audiofile"
	"github.com/google-research/reverbset/tools/manifest"
	"github.com/google-research/reverbset/tools/meters"
	"github.com/google-research/reverbset/tools/reverb"
	"github.com/google-research/reverbset/tools/workerpool"
)

// Config configures a reverberation run.
type Config struct {
	// InputFolder contains the dry wav files, searched recursively.
	InputFolder string
	// RIRFolder contains one subdirectory of impulse response wavs per
	// subset.
	RIRFolder string
	// RIRSubset selects the subdirectory of RIRFolder to draw impulse
	// responses from. Glob patterns are accepted.
	RIRSubset string
	// OutputFolder receives the reverberated wavs, mirroring the input
	// folder structure.
	OutputFolder string
	// MixInfoFile, SourceListFile and RIRListFile are the manifest
	// destinations.
	MixInfoFile    string
	SourceListFile string
	RIRListFile    string
	// Workers is the number of files reverberated concurrently. 0 means
	// no limit. The produced dataset is identical for any worker count.
	Workers int
	// Seed folds into the per-file impulse response choice.
	Seed int64
	// SampleRate is the rate all audio is resampled to.
	SampleRate float64
	// WetDB is the level of the reverberated signal relative to the dry
	// input.
	WetDB float64
	// Progress enables a progress bar on stdout.
	Progress bool
}

func (c Config) validate() error {
	if c.InputFolder == "" || c.RIRFolder == "" || c.OutputFolder == "" {
		return fmt.Errorf("input, RIR and output folders are all required")
	}
	if c.RIRSubset == "" {
		return fmt.Errorf("an RIR subset is required")
	}
	if c.MixInfoFile == "" || c.SourceListFile == "" || c.RIRListFile == "" {
		return fmt.Errorf("mix info, source list and RIR list files are all required")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate %v is not positive", c.SampleRate)
	}
	return nil
}

// Mixer reverberates a folder of dry audio.
type Mixer struct {
	cfg   Config
	stats *meters.Set

	mu       sync.Mutex
	rirCache map[string]*audiofile.Buffer
}

// New returns a mixer for the given config.
func New(cfg Config) (*Mixer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Mixer{
		cfg:      cfg,
		stats:    meters.NewSet(),
		rirCache: map[string]*audiofile.Buffer{},
	}, nil
}

// Stats returns the meters of the last run.
func (m *Mixer) Stats() *meters.Set {
	return m.stats
}

func relativeGlob(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, err
	}
	rels := []string{}
	for _, match := range matches {
		rel, err := filepath.Rel(root, match)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	return rels, nil
}

func (m *Mixer) inputs() ([]string, error) {
	inputs, err := relativeGlob(m.cfg.InputFolder, filepath.Join("**", "*.wav"))
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no wav files found under %v", m.cfg.InputFolder)
	}
	return inputs, nil
}

func (m *Mixer) rirs() ([]string, error) {
	rirs, err := relativeGlob(m.cfg.RIRFolder, filepath.Join(m.cfg.RIRSubset, "**", "*.wav"))
	if err != nil {
		return nil, err
	}
	if len(rirs) == 0 {
		return nil, fmt.Errorf("no impulse responses found for subset %q under %v", m.cfg.RIRSubset, m.cfg.RIRFolder)
	}
	return rirs, nil
}

// assignRIR picks the impulse response for one input file. The choice only
// depends on the file name, the seed and the subset contents, never on
// worker scheduling, so runs reproduce regardless of parallelism.
func (m *Mixer) assignRIR(input string, rirs []string) string {
	h := fnv.New64a()
	h.Write([]byte(filepath.ToSlash(input)))
	rng := rand.New(rand.NewSource(int64(h.Sum64()) ^ m.cfg.Seed))
	return rirs[rng.Intn(len(rirs))]
}

func (m *Mixer) loadRIR(rir string) (*audiofile.Buffer, error) {
	m.mu.Lock()
	cached, found := m.rirCache[rir]
	m.mu.Unlock()
	if found {
		return cached, nil
	}
	buffer, err := audiofile.Read(filepath.Join(m.cfg.RIRFolder, rir), m.cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.rirCache[rir] = buffer
	m.mu.Unlock()
	return buffer, nil
}

func (m *Mixer) reverberate(input, rir string) (manifest.MixEntry, error) {
	started := time.Now()
	dry, err := audiofile.Read(filepath.Join(m.cfg.InputFolder, input), m.cfg.SampleRate)
	if err != nil {
		return manifest.MixEntry{}, err
	}
	rirBuffer, err := m.loadRIR(rir)
	if err != nil {
		return manifest.MixEntry{}, err
	}
	result, err := reverb.Apply(dry.Samples, rirBuffer.Samples, m.cfg.WetDB)
	if err != nil {
		return manifest.MixEntry{}, err
	}
	wet := &audiofile.Buffer{Samples: result.Samples, Rate: m.cfg.SampleRate}
	outputPath := filepath.Join(m.cfg.OutputFolder, input)
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return manifest.MixEntry{}, err
	}
	if err := wet.Write(outputPath); err != nil {
		return manifest.MixEntry{}, err
	}
	m.stats.Update("seconds_per_file", time.Since(started).Seconds())
	m.stats.Update("normalization_gain", result.Gain)
	return manifest.MixEntry{
		Mixture:  input,
		Source:   input,
		RIR:      rir,
		WetDB:    m.cfg.WetDB,
		Gain:     result.Gain,
		Duration: wet.Duration(),
	}, nil
}

// Run reverberates every input file and writes the manifests. Manifests are
// only written when every file succeeded.
func (m *Mixer) Run() error {
	inputs, err := m.inputs()
	if err != nil {
		return err
	}
	rirs, err := m.rirs()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.cfg.OutputFolder, os.ModePerm); err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if m.cfg.Progress {
		bar = pb.StartNew(len(inputs)).Prefix("Reverberating")
	}
	entries := make([]manifest.MixEntry, len(inputs))
	pool := workerpool.New(m.cfg.Workers)
	for idx, input := range inputs {
		idx, input := idx, input
		pool.Go(input, func() error {
			entry, err := m.reverberate(input, m.assignRIR(input, rirs))
			if err != nil {
				return err
			}
			entries[idx] = entry
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	usedSet := map[string]bool{}
	for _, entry := range entries {
		usedSet[entry.RIR] = true
	}
	used := []string{}
	for rir := range usedSet {
		used = append(used, rir)
	}
	sort.Strings(used)

	if err := manifest.WriteMixInfo(m.cfg.MixInfoFile, entries); err != nil {
		return err
	}
	if err := manifest.WriteFileList(m.cfg.SourceListFile, inputs); err != nil {
		return err
	}
	return manifest.WriteFileList(m.cfg.RIRListFile, used)
}
