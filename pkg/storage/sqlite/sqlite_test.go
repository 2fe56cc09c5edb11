// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/caselight/legalqa-gw/pkg/storage"
	"github.com/caselight/legalqa-gw/pkg/storage/sqlite"
	"github.com/caselight/legalqa-gw/pkg/storage/storagetest"
)

func TestSQLiteConformance(t *testing.T) {
	storagetest.RunConformanceTests(t, func(t *testing.T) storage.MetadataStore {
		store, err := sqlite.New(filepath.Join(t.TempDir(), "meta.db"))
		if err != nil {
			t.Fatalf("sqlite.New: %v", err)
		}
		return store
	})
}
