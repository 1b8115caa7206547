// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envdef

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Parse decodes a definition document. JSON input is accepted too, so the
// resolved companion file parses through the same path.
func Parse(contents []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(contents, doc); err != nil {
		return nil, wrapParseError(err)
	}
	return doc, nil
}

// Read loads and parses the definition at filePath. The document is not yet
// normalized; callers resolve it against the directory of their choosing.
func Read(filePath string) (*Document, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading environment definition: %w", err)
	}
	doc, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	return doc, nil
}
