// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envinstall

import (
	"fmt"
	"path/filepath"

	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

// ReadDocument loads and resolves the definition at filePath. Entry paths
// resolve against the file's directory.
func ReadDocument(filePath string) (*envdef.Document, error) {
	doc, err := envdef.Read(filePath)
	if err != nil {
		return nil, err
	}
	if err := doc.Normalize(filepath.Dir(filePath)); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return doc, nil
}

// ReadDefaultDocument loads whatever definition default discovery finds in
// the install root. ok is false when there is none.
func ReadDefaultDocument(config *swenvconfig.Config) (doc *envdef.Document, path string, ok bool, err error) {
	path, ok, err = config.DefaultDefinitionPath()
	if err != nil || !ok {
		return nil, "", ok, err
	}
	doc, err = ReadDocument(path)
	if err != nil {
		return nil, path, true, err
	}
	return doc, path, true, nil
}
