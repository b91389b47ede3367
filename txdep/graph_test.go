package txdep

import (
	"testing"

	"github.com/parallel-evm/pevm/types"
)

func hintRW(reads, writes []types.Location) types.ExecutionHint {
	h := types.NewExecutionHint()
	for _, l := range reads {
		h.ReadSet.Add(l)
	}
	for _, l := range writes {
		h.WriteSet.Add(l)
	}
	return h
}

func TestBuildAllIndependent(t *testing.T) {
	a := types.BytesToAddress([]byte{1})
	b := types.BytesToAddress([]byte{2})
	c := types.BytesToAddress([]byte{3})
	d := types.BytesToAddress([]byte{4})

	hints := []types.ExecutionHint{
		hintRW([]types.Location{types.Basic(a)}, []types.Location{types.Basic(a)}),
		hintRW([]types.Location{types.Basic(b)}, []types.Location{types.Basic(b)}),
		hintRW([]types.Location{types.Basic(c)}, []types.Location{types.Basic(c)}),
		hintRW([]types.Location{types.Basic(d)}, []types.Location{types.Basic(d)}),
	}
	g := Build(0, hints)
	if !g.AllIndependent {
		t.Fatal("expected disjoint-location hints to produce an all-independent graph")
	}
	for i, deps := range g.Deps {
		if len(deps) != 0 {
			t.Fatalf("tx %d: expected no deps, got %v", i, deps)
		}
	}
}

func TestBuildNearestPriorWriterOnly(t *testing.T) {
	a := types.BytesToAddress([]byte{1})
	loc := types.Basic(a)

	// tx0 writes loc, tx1 writes loc, tx2 reads loc: tx2 must depend on
	// tx1 (the nearest prior writer), not tx0.
	hints := []types.ExecutionHint{
		hintRW(nil, []types.Location{loc}),
		hintRW(nil, []types.Location{loc}),
		hintRW([]types.Location{loc}, nil),
	}
	g := Build(0, hints)
	if g.AllIndependent {
		t.Fatal("expected a dependency edge, got all-independent")
	}
	if len(g.Deps[2]) != 1 || g.Deps[2][0] != 1 {
		t.Fatalf("expected tx2 to depend only on tx1, got %v", g.Deps[2])
	}
	if len(g.Deps[0]) != 0 || len(g.Deps[1]) != 0 {
		t.Fatalf("expected tx0/tx1 to have no deps, got %v / %v", g.Deps[0], g.Deps[1])
	}
}

func TestBuildEdgesAlwaysPointToLowerTxId(t *testing.T) {
	a := types.BytesToAddress([]byte{1})
	loc := types.Basic(a)
	hints := []types.ExecutionHint{
		hintRW(nil, []types.Location{loc}),
		hintRW([]types.Location{loc}, []types.Location{loc}),
		hintRW([]types.Location{loc}, []types.Location{loc}),
	}
	g := Build(0, hints)
	for tx, deps := range g.Deps {
		for _, d := range deps {
			if d >= tx {
				t.Fatalf("dependency edge %d -> %d does not point to a strictly lower TxId", tx, d)
			}
		}
	}
}

func TestGraphUpdateRejectsBatchSizeChange(t *testing.T) {
	g := Build(0, []types.ExecutionHint{types.NewExecutionHint(), types.NewExecutionHint()})
	err := g.Update([][]types.TxId{{}}, 0)
	if err == nil {
		t.Fatal("expected an error when Update changes the implied batch size")
	}
}

func TestGraphUpdatePreservesFinalizedPrefix(t *testing.T) {
	g := Build(0, []types.ExecutionHint{types.NewExecutionHint(), types.NewExecutionHint()})
	if err := g.Update([][]types.TxId{{}}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.NumFinalityTxs != 1 || g.Len() != 1 {
		t.Fatalf("expected 1 finalized + 1 tail, got %d finalized + %d tail", g.NumFinalityTxs, g.Len())
	}
}
