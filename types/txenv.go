package types

// TxEnv is the minimal transaction envelope the scheduler operates on.
// It carries enough for the default value-transfer TxExecutor and for
// an injected EVM-shaped executor to locate the accounts it touches;
// it intentionally omits signing, access lists, and the EIP-1559/4844
// fee envelopes, which belong to the block/consensus layer supplying
// the batch, not to the scheduler itself.
type TxEnv struct {
	From     Address
	To       Address
	Value    *Word
	Data     []byte
	GasLimit uint64
}
