// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package msgs collects user-facing status messages emitted while an
// environment installs. Messages accumulate in order so they can be shown
// later (the status command), and are echoed to stderr as they happen when
// verbose output is on.
package msgs

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const prefix = "..swenv: "

type Recorder struct {
	mu       sync.Mutex
	messages []string

	echo io.Writer
}

// NewRecorder returns a recorder that only accumulates messages.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewVerboseRecorder additionally echoes each message to stderr.
func NewVerboseRecorder() *Recorder {
	return &Recorder{echo: os.Stderr}
}

func (r *Recorder) Record(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	if r.echo != nil {
		fmt.Fprintln(r.echo, prefix+msg)
	}
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
