package mesh

import (
	"fmt"
	"math"
)

// EdgeKey packs two node indices into a uint64 to act as an
// order-independent hash for undirected edge set membership.
type EdgeKey uint64

func NewEdgeKey(a, b int) (packed EdgeKey) {
	if a < 0 || b < 0 || a > math.MaxUint32 || b > math.MaxUint32 {
		panic(fmt.Errorf(
			"unable to pack two ints into a uint64, have %d and %d as inputs",
			a, b))
	}
	if a > b {
		a, b = b, a
	}
	packed = EdgeKey(a + b<<32)
	return
}

func (ek EdgeKey) Nodes() (a, b int) {
	a = int(ek & (1<<32 - 1))
	b = int(ek >> 32)
	return
}
