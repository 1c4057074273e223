/* audiofile reads and writes mono audio buffers as WAV files.
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
package audiofile

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

// Buffer is a mono sound buffer with samples between -1.0 and 1.0.
type Buffer struct {
	// Samples are the sample values of the buffer.
	Samples []float64
	// Rate is the sample rate of the buffer.
	Rate float64
}

// Duration returns the length of the buffer in seconds.
func (b *Buffer) Duration() float64 {
	if b.Rate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / b.Rate
}

// Peak returns the largest absolute sample value of the buffer.
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, sample := range b.Samples {
		if abs := math.Abs(sample); abs > peak {
			peak = abs
		}
	}
	return peak
}

// Resampled returns a copy of the buffer linearly interpolated to the given
// sample rate. A zero rate returns the buffer unchanged.
func (b *Buffer) Resampled(rate float64) *Buffer {
	if rate == 0 || rate == b.Rate {
		return &Buffer{Samples: append([]float64(nil), b.Samples...), Rate: b.Rate}
	}
	resampled := make([]float64, int(math.Round(float64(len(b.Samples))*rate/b.Rate)))
	step := b.Rate / rate
	for idx := range resampled {
		pos := float64(idx) * step
		left := int(pos)
		if left >= len(b.Samples)-1 {
			resampled[idx] = b.Samples[len(b.Samples)-1]
			continue
		}
		frac := pos - float64(left)
		resampled[idx] = (1-frac)*b.Samples[left] + frac*b.Samples[left+1]
	}
	return &Buffer{Samples: resampled, Rate: rate}
}

// Decode reads WAV data, mixing all channels down to mono. If targetRate is
// non zero the result is resampled to it.
func Decode(r io.Reader, targetRate float64) (*Buffer, error) {
	// wav.NewReader wants a riff.RIFFReader, an io.Reader that is also
	// an io.ReaderAt, so buffer the stream.
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read WAV data: %v", err)
	}
	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		return nil, fmt.Errorf("unable to read WAV format: %v", err)
	}
	channels := int(format.NumChannels)
	buffer := &Buffer{Rate: float64(format.SampleRate)}
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("unable to read WAV samples: %v", err)
		}
		for _, sample := range samples {
			sum := 0.0
			for channel := 0; channel < channels; channel++ {
				// FloatValue normalizes by the full 2^bits range, putting
				// full scale at 0.5 instead of 1.0.
				sum += 2 * reader.FloatValue(sample, uint(channel))
			}
			buffer.Samples = append(buffer.Samples, sum/float64(channels))
		}
	}
	if targetRate != 0 && targetRate != buffer.Rate {
		buffer = buffer.Resampled(targetRate)
	}
	return buffer, nil
}

// Read reads the WAV file at path like Decode.
func Read(path string, targetRate float64) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, targetRate)
}

// Encode writes the buffer as a 16 bit stereo WAV file, duplicating the mono
// channel. Assumes the buffer contains only values between -1.0 and 1.0.
func (b *Buffer) Encode(w io.Writer) error {
	wavSamples := make([]wav.Sample, len(b.Samples))
	for idx := range b.Samples {
		val := int(b.Samples[idx] * float64(math.MaxInt16))
		wavSamples[idx] = wav.Sample{
			Values: [2]int{val, val},
		}
	}
	buf := &bytes.Buffer{}
	wavWriter := wav.NewWriter(buf, uint32(len(b.Samples)), 2, uint32(b.Rate), 16)
	if err := wavWriter.WriteSamples(wavSamples); err != nil {
		return err
	}
	_, err := io.Copy(w, buf)
	return err
}

// Write writes the buffer as a WAV file at path like Encode.
func (b *Buffer) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Encode(f)
}

// Duration returns the duration in seconds of the WAV file at path without
// keeping its samples in memory.
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return 0, fmt.Errorf("unable to read WAV format of %v: %v", path, err)
	}
	frames := 0
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, fmt.Errorf("unable to read WAV samples of %v: %v", path, err)
		}
		frames += len(samples)
	}
	return float64(frames) / float64(format.SampleRate), nil
}
