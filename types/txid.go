package types

// TxId is a dense integer index into a batch's transaction slice.
// The sequential order of a batch is TxId ascending; TxIds are stable
// for the lifetime of a batch.
type TxId = int
