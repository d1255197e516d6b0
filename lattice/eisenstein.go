package lattice

import "github.com/notargets/pqtorus/utils"

// EisensteinInvariants sums g2 = 60Σ'ω⁻⁴ and g3 = 140Σ'ω⁻⁶ over the lattice
// points with |m|, |n| <= nMax. It converges like nMax⁻² and serves as an
// independent check of the theta route.
func EisensteinInvariants(l Lattice, nMax int) (g2, g3 complex128) {
	var (
		s4, s6 complex128
	)
	for _, w := range l.Points(nMax) {
		s4 += utils.CPOW(w, -4)
		s6 += utils.CPOW(w, -6)
	}
	g2 = 60 * s4
	g3 = 140 * s6
	return
}
