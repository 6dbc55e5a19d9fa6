package suite

import (
	"github.com/hazyhaar/domassert/suite/internal/store"
)

// Run is one recorded suite execution. Re-exported from internal.
type Run = store.Run

// Result is one recorded check outcome. Re-exported from internal.
type Result = store.Result

// Store is the run-history database. Re-exported from internal.
type Store = store.Store

// OpenStore opens (and migrates) the run-history database at path.
func OpenStore(path string) (*Store, error) {
	return store.Open(path)
}
