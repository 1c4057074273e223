/*
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
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMeter(t *testing.T) {
	m := &Meter{}
	m.Update(1)
	m.Update(3)
	if m.Val != 3 {
		t.Errorf("got value %v, wanted 3", m.Val)
	}
	if m.Avg != 2 {
		t.Errorf("got average %v, wanted 2", m.Avg)
	}
	m.UpdateN(10, 2)
	if m.Count != 4 {
		t.Errorf("got count %v, wanted 4", m.Count)
	}
	if m.Avg != 6 {
		t.Errorf("got average %v, wanted 6", m.Avg)
	}
	m.Reset()
	if m.Count != 0 || m.Sum != 0 {
		t.Errorf("reset meter still holds %+v", *m)
	}
}

func TestSet(t *testing.T) {
	s := NewSet()
	wg := &sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("seconds", 2)
			s.Update("gain", 1)
		}()
	}
	wg.Wait()
	wanted := map[string]float64{"seconds": 2, "gain": 1}
	if diff := cmp.Diff(s.Averages(), wanted); diff != "" {
		t.Errorf("got averages %+v, but wanted %+v", s.Averages(), wanted)
	}
	if got, wanted := s.String(), "gain 1.0000 seconds 2.0000"; got != wanted {
		t.Errorf("got %q, wanted %q", got, wanted)
	}
}
