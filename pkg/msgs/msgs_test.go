// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package msgs

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Record("plain")
	r.Record("%d formatted", 2)

	assert.Equal(t, []string{"plain", "2 formatted"}, r.Messages())

	r.Reset()
	assert.Empty(t, r.Messages())
}

func TestRecorderEcho(t *testing.T) {
	var buf bytes.Buffer
	r := &Recorder{echo: &buf}
	r.Record("hello")
	assert.Equal(t, "..swenv: hello\n", buf.String())
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("msg")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Messages(), 20)
}
