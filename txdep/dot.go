package txdep

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DOT renders the dependency graph as Graphviz dot source, for
// debugging pathological partitions (wired into the demo CLI's
// --dump-graph flag).
func (g *Graph) DOT() string {
	gr := dot.NewGraph(dot.Directed)
	nodes := make(map[int]dot.Node, g.Len())
	for i := 0; i < g.Len(); i++ {
		tx := g.NumFinalityTxs + i
		nodes[tx] = gr.Node(fmt.Sprintf("tx%d", tx))
	}
	for i, deps := range g.Deps {
		tx := g.NumFinalityTxs + i
		for _, d := range deps {
			gr.Edge(nodes[tx], nodes[d])
		}
	}
	return gr.String()
}
