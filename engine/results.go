package engine

import (
	"github.com/quarrydata/taskpipe/types"
	"github.com/quarrydata/taskpipe/utils"
)

// ResultStore is the flat map of "{task}.{output}" keys to produced values,
// the only data channel between tasks. The executor writes to it immediately
// after a task succeeds; execution is strictly sequential, so no locking.
type ResultStore struct {
	m types.Data
}

func NewResultStore() *ResultStore {
	return &ResultStore{m: make(types.Data)}
}

func (rs *ResultStore) Get(key string) (any, bool) {
	return rs.m.Get(key)
}

func (rs *ResultStore) Merge(outputs types.Data) {
	for k, v := range outputs {
		rs.m[k] = v
	}
}

func (rs *ResultStore) Keys() []string {
	return utils.SortedKeys(rs.m)
}

func (rs *ResultStore) Len() int {
	return len(rs.m)
}

// Snapshot returns a shallow copy for diagnostics.
func (rs *ResultStore) Snapshot() types.Data {
	return rs.m.Clone()
}

func (rs *ResultStore) clear() {
	rs.m = make(types.Data)
}
