/* workerpool contains code to run a limited number of labeled error handling
 * goroutines concurrently.
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
package workerpool

import (
	"fmt"
	"sync"
)

// JobErr is the error of a single labeled job.
type JobErr struct {
	// Label names the job that failed.
	Label string
	// Err is the error the job returned.
	Err error
}

// Error returns a string representation of the job error.
func (j JobErr) Error() string {
	return fmt.Sprintf("%s: %v", j.Label, j.Err)
}

// MultiErr contains multiple errors.
type MultiErr []error

// Error returns a string representation of the multi error.
func (m MultiErr) Error() string {
	return fmt.Sprint([]error(m))
}

type job struct {
	label string
	run   func() error
}

// Pool runs a limited number of labeled error handling goroutines
// concurrently.
type Pool struct {
	queue  chan job
	errors chan error
}

// Go will run the function under the given label.
func (p *Pool) Go(label string, f func() error) {
	p.queue <- job{label: label, run: f}
}

// Wait stops accepting jobs, waits for all submitted jobs to finish, and
// returns the labeled errors of the jobs that failed.
func (p *Pool) Wait() error {
	close(p.queue)
	me := MultiErr{}
	for err := range p.errors {
		if err != nil {
			me = append(me, err)
		}
	}
	if len(me) == 0 {
		return nil
	}
	return me
}

// New returns a new pool that runs at most concurrency jobs at a time.
// A concurrency of 0 means no limit.
func New(concurrency int) *Pool {
	p := &Pool{
		queue:  make(chan job),
		errors: make(chan error),
	}

	go func() {
		wg := &sync.WaitGroup{}
		tickets := make(chan struct{}, concurrency)
		for jobVar := range p.queue {
			job := jobVar
			if concurrency > 0 {
				tickets <- struct{}{}
			}
			wg.Add(1)
			go func() {
				err := job.run()
				if concurrency > 0 {
					<-tickets
				}
				if err != nil {
					err = JobErr{Label: job.label, Err: err}
				}
				p.errors <- err
				wg.Done()
			}()
		}
		wg.Wait()
		close(p.errors)
	}()
	return p
}
