// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem_test

import (
	"testing"

	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/docstore/docstoretest"
	"github.com/caselight/legalqa-gw/pkg/docstore/filesystem"
)

func TestFilesystemConformance(t *testing.T) {
	docstoretest.RunConformanceTests(t, func(t *testing.T) docstore.DocumentStore {
		store, err := filesystem.New(t.TempDir())
		if err != nil {
			t.Fatalf("filesystem.New: %v", err)
		}
		return store
	})
}
