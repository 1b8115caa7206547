// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package searchpath maintains the module search path handed to spawned
// interpreters via PYTHONPATH. Installed directories are inserted at the
// front so environment content shadows anything already on the path, and
// duplicates are never introduced.
package searchpath

import (
	"os"
	"strings"

	"github.com/cpd-tools/swenv/pkg/utils/stringset"
)

const PythonPathEnvVar = "PYTHONPATH"

// List is an ordered, duplicate-free search path. Not safe for concurrent
// use; installation serializes access through its session.
type List struct {
	entries []string
	seen    stringset.StringSet
}

// Load reads the current PYTHONPATH. Empty segments are dropped.
func Load() *List {
	l := &List{seen: stringset.StringSet{}}
	for _, p := range strings.Split(os.Getenv(PythonPathEnvVar), string(os.PathListSeparator)) {
		if p == "" || l.seen.Contains(p) {
			continue
		}
		l.entries = append(l.entries, p)
		l.seen.Add(p)
	}
	return l
}

// Prepend puts dir at the front of the path. Reports whether the path
// changed; a dir already present keeps its position.
func (l *List) Prepend(dir string) bool {
	if l.seen.Contains(dir) {
		return false
	}
	l.entries = append([]string{dir}, l.entries...)
	l.seen.Add(dir)
	return true
}

func (l *List) Contains(dir string) bool {
	return l.seen.Contains(dir)
}

func (l *List) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *List) String() string {
	return strings.Join(l.entries, string(os.PathListSeparator))
}

// Sync publishes the list back to the process environment so spawned
// interpreters inherit it.
func (l *List) Sync() error {
	return os.Setenv(PythonPathEnvVar, l.String())
}
