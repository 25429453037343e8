package linear

import (
	"github.com/vk/seasched/internal/ir"
)

// assignRegisters numbers the value-producing nodes that have no register yet,
// in emission order. Numbering continues after the highest register already
// present.
func assignRegisters(g *ir.Graph, chains []chain) {
	next := 0
	for _, id := range g.Nodes() {
		if r, ok := g.Props(id).Int(ir.PropRegister); ok && r >= next {
			next = r + 1
		}
	}

	for _, c := range chains {
		for _, id := range c.nodes {
			if !g.ProducesValue(id) || g.Props(id).Has(ir.PropRegister) {
				continue
			}
			g.Props(id)[ir.PropRegister] = next
			next++
		}
	}
}
