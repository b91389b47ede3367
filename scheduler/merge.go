package scheduler

import (
	"sort"

	"github.com/parallel-evm/pevm/types"
)

// MergedWriteSet maps each Location touched this round to the
// ascending-sorted TxIds (across every partition) that wrote it,
// rebuilt fresh each round per 4.5.3. The sorted slice supports the
// range query `{t' in writers(L) : t' < target}` that validation needs,
// via binary search.
type MergedWriteSet struct {
	writers map[types.Location][]types.TxId
}

// buildMergedWriteSet inserts, for every TxId executed this round,
// every Location in its observed WriteSet.
func buildMergedWriteSet(results map[types.TxId]types.TxResult) *MergedWriteSet {
	m := &MergedWriteSet{writers: make(map[types.Location][]types.TxId)}
	for t, r := range results {
		if r.WriteSet == nil {
			continue
		}
		r.WriteSet.Each(func(l types.Location) bool {
			m.writers[l] = append(m.writers[l], t)
			return false
		})
	}
	for l, ws := range m.writers {
		sort.Ints(ws)
		m.writers[l] = ws
	}
	return m
}

// before returns the TxIds that wrote loc strictly before target,
// ascending.
func (m *MergedWriteSet) before(loc types.Location, target types.TxId) []types.TxId {
	ws := m.writers[loc]
	idx := sort.SearchInts(ws, target)
	return ws[:idx]
}
