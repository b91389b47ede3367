package scheduler

import "github.com/parallel-evm/pevm/types"

// validateAndCommit implements 4.5.4. It walks TxIds in ascending
// input order starting at numFinalityTxs (the entire tail executed
// this round) and marks a TxId conflicted iff its read set observed a
// write from a TxId outside its own partition, or from a TxId inside
// its partition that is itself conflicted -- equivalently, the
// speculative read would have differed under true sequential order.
//
// It returns the ascending TxIds of the longest conflict-free prefix
// starting at numFinalityTxs: the prefix stops at the first conflicted
// TxId even if later ones are individually non-conflicting (prefix-only
// finalization, P5).
func validateAndCommit(
	numFinalityTxs, total int,
	results map[types.TxId]types.TxResult,
	partitionOf map[types.TxId]int,
	merged *MergedWriteSet,
) (promoted []types.TxId) {
	conflicted := make(map[types.TxId]bool, total-numFinalityTxs)

	for t := numFinalityTxs; t < total; t++ {
		r, ok := results[t]
		if !ok || r.ReadSet == nil {
			conflicted[t] = false
			continue
		}
		isConflicted := false
		r.ReadSet.Each(func(loc types.Location) bool {
			for _, w := range merged.before(loc, t) {
				if partitionOf[w] != partitionOf[t] {
					isConflicted = true
					return true
				}
				if conflicted[w] {
					isConflicted = true
					return true
				}
			}
			return false
		})
		conflicted[t] = isConflicted
		if isConflicted {
			// Downstream conflicted[] lookups for later t only need
			// entries at or before them, so it is safe to stop probing
			// reads once the prefix is known to end here; we still
			// finish the loop below to size the prefix correctly.
		}
	}

	for t := numFinalityTxs; t < total; t++ {
		if conflicted[t] {
			break
		}
		promoted = append(promoted, t)
	}
	return promoted
}
