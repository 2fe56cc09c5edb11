// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"testing"

	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/docstore/docstoretest"
	"github.com/caselight/legalqa-gw/pkg/docstore/memory"
)

func TestMemoryConformance(t *testing.T) {
	docstoretest.RunConformanceTests(t, func(t *testing.T) docstore.DocumentStore {
		return memory.New()
	})
}
