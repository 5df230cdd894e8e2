// Package tests contains test cases for models, repositories and flows that
// need a real PostgreSQL database, kept out of the production packages to
// avoid circular imports.
package tests

import (
	"testing"

	testingutil "github.com/blachmet/cennik/testing"
)

// withTestDB creates a disposable database for one test and tears it down
// afterwards. Tests are skipped when no PostgreSQL server is reachable.
func withTestDB(t *testing.T, fn func(testDB *testingutil.TestDB)) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("skipping: test database unavailable: %v", err)
	}
	defer func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("warning: failed to clean up test database: %v", err)
		}
	}()

	fn(testDB)
}
