package scheduler

import (
	"github.com/parallel-evm/pevm/crypto"
	"github.com/parallel-evm/pevm/rlp"
	"github.com/parallel-evm/pevm/types"
)

// auditRecord is the RLP-encodable shape of one StateChange, used only
// to produce a deterministic audit hash over a batch's FinalState --
// Location and StateChange themselves aren't RLP-tagged since nothing
// else needs to serialize them.
type auditRecord struct {
	Kind    uint8
	Account [types.AddressLength]byte
	Slot    [types.HashLength]byte
	Value   []byte
}

// AuditHash returns the Keccak256 hash of a batch's FinalState, in
// commit order. Two batches that applied the same writes in the same
// order hash identically regardless of which round finalized each
// write, letting an operator diff audit logs across re-runs without
// storing the full StateDelta.
func AuditHash(delta types.StateDelta) types.Hash {
	records := make([]auditRecord, len(delta))
	for i, sc := range delta {
		records[i] = auditRecord{
			Kind:    uint8(sc.Location.Kind),
			Account: sc.Location.Account,
			Slot:    sc.Location.Slot,
			Value:   sc.Value,
		}
	}
	b, err := rlp.EncodeToBytes(records)
	if err != nil {
		// auditRecord's shape is always RLP-encodable.
		panic(err)
	}
	return crypto.Keccak256Hash(b)
}
