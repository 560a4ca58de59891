package assignment

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveSquare is the classical O(n^3) Hungarian algorithm with potentials
// (the Kuhn-Munkres shortest-augmenting-path formulation). cost must be
// square; spec §4.6 treats the solver as a black-box contract — any
// compliant minimum-weight assignment implementation is acceptable, and
// gonum carries no assignment solver of its own, so this is hand-written.
//
// Returns colForRow[i] = the column assigned to row i, 0-indexed.
func solveSquare(cost *mat.Dense) []int {
	n, m := cost.Dims()
	if n != m {
		panic("solveSquare: matrix must be square")
	}
	const inf = math.MaxFloat64 / 4

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j] = row matched to column j (1-indexed, 0 = unmatched)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	colForRow := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			colForRow[p[j]-1] = j - 1
		}
	}
	return colForRow
}

// SolveRectangular assigns each of R rows to a distinct column of an R×C
// (R ≤ C) cost matrix, minimising total cost, leaving C-R columns unused.
// It pads with zero-cost dummy rows to square the matrix — since every
// dummy row costs the same (0) for any column, the padding cannot perturb
// the optimal assignment of the real rows, only decide which unused
// columns absorb the slack.
func SolveRectangular(cost *mat.Dense) (rowToCol []int, totalCost float64) {
	r, c := cost.Dims()
	if r > c {
		panic("SolveRectangular: rows must not exceed columns")
	}
	if r == c {
		colForRow := solveSquare(cost)
		total := 0.0
		for i, j := range colForRow {
			total += cost.At(i, j)
		}
		return colForRow, total
	}

	padded := mat.NewDense(c, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			padded.Set(i, j, cost.At(i, j))
		}
	}
	// rows r..c-1 are dummy, already zero.

	colForRow := solveSquare(padded)
	rowToCol = colForRow[:r]
	total := 0.0
	for i := 0; i < r; i++ {
		total += cost.At(i, rowToCol[i])
	}
	return rowToCol, total
}
