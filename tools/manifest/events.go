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
package manifest

import (
	"fmt"
	"strconv"
)

// Event is one labeled sound event of a mixture, with onset and offset in
// seconds.
type Event struct {
	Filename string
	Onset    float64
	Offset   float64
	Label    string
}

var eventsHeader = []string{"filename", "onset", "offset", "event_label"}

// WriteEvents writes a labeled event manifest.
func WriteEvents(path string, events []Event) error {
	records := [][]string{eventsHeader}
	for _, event := range events {
		records = append(records, []string{
			event.Filename,
			strconv.FormatFloat(event.Onset, 'f', 3, 64),
			strconv.FormatFloat(event.Offset, 'f', 3, 64),
			event.Label,
		})
	}
	return writeTSV(path, records)
}

// ReadEvents reads a labeled event manifest.
func ReadEvents(path string) ([]Event, error) {
	records, err := readTSV(path, len(eventsHeader))
	if err != nil {
		return nil, err
	}
	events := []Event{}
	for idx, record := range records {
		if idx == 0 {
			continue
		}
		event := Event{Filename: record[0], Label: record[3]}
		if event.Onset, err = strconv.ParseFloat(record[1], 64); err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		if event.Offset, err = strconv.ParseFloat(record[2], 64); err != nil {
			return nil, fmt.Errorf("line %v of %v: %v", idx+1, path, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// EventsByFile groups events by their filename.
func EventsByFile(events []Event) map[string][]Event {
	byFile := map[string][]Event{}
	for _, event := range events {
		byFile[event.Filename] = append(byFile[event.Filename], event)
	}
	return byFile
}
