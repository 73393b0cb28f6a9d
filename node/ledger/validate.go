// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// validateBlocks runs the integrity scan over the given block sequence.  For
// every adjacent pair (i, i+1) it checks that block i's stored hash still
// matches its recomputed digest and that block i+1's predecessor reference
// equals block i's hash.  Each failed check records index i, so an index can
// appear twice when both checks fail for the same position.  Empty and
// single-block sequences trivially validate.
func validateBlocks(blocks []*Block) []int32 {
	faulty := make([]int32, 0)
	for i := 0; i+1 < len(blocks); i++ {
		if !blocks[i].Validate() {
			faulty = append(faulty, int32(i))
		}

		next := blocks[i+1]
		if next.PrevHash == nil || !next.PrevHash.IsEqual(&blocks[i].Hash) {
			faulty = append(faulty, int32(i))
		}
	}
	return faulty
}
