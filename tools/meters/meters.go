/* meters contains running averages for pipeline statistics.
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
package meters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Meter computes and stores the running average and current value.
type Meter struct {
	Val   float64
	Sum   float64
	Count int
	Avg   float64
}

// Update feeds the meter a new value.
func (m *Meter) Update(val float64) {
	m.UpdateN(val, 1)
}

// UpdateN feeds the meter a value observed n times.
func (m *Meter) UpdateN(val float64, n int) {
	m.Val = val
	m.Sum += val * float64(n)
	m.Count += n
	m.Avg = m.Sum / float64(m.Count)
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Set is a named collection of meters, safe for concurrent updates.
type Set struct {
	mu     sync.Mutex
	meters map[string]*Meter
}

// NewSet returns an empty meter set.
func NewSet() *Set {
	return &Set{meters: map[string]*Meter{}}
}

// Update feeds the named meter a new value, creating it when needed.
func (s *Set) Update(name string, val float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meter, found := s.meters[name]
	if !found {
		meter = &Meter{}
		s.meters[name] = meter
	}
	meter.Update(val)
}

// Averages returns the average of every meter.
func (s *Set) Averages() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	averages := map[string]float64{}
	for name, meter := range s.meters {
		averages[name] = meter.Avg
	}
	return averages
}

// String returns the names and averages of the meters, sorted by name.
func (s *Set) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := []string{}
	for name := range s.meters {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := []string{}
	for _, name := range names {
		meter := s.meters[name]
		format := "%s %.4f"
		if meter.Avg != 0 && meter.Avg < 0.01 {
			format = "%s %.2E"
		}
		parts = append(parts, fmt.Sprintf(format, name, meter.Avg))
	}
	return strings.Join(parts, " ")
}
