package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveRectangular_SquareOptimalAssignment(t *testing.T) {
	// Classic textbook 3x3 assignment problem with a known optimum.
	cost := mat.NewDense(3, 3, []float64{
		4, 1, 3,
		2, 0, 5,
		3, 2, 2,
	})
	rowToCol, total := SolveRectangular(cost)
	require.Len(t, rowToCol, 3)
	assert.Equal(t, 5.0, total)

	// Verify each assigned column is distinct (a valid permutation).
	seen := map[int]bool{}
	for _, c := range rowToCol {
		assert.False(t, seen[c], "column %d assigned twice", c)
		seen[c] = true
	}
}

func TestSolveRectangular_RectangularLeavesColumnsUnused(t *testing.T) {
	// 2 rows, 4 columns: cheapest column for each row should be picked,
	// using distinct columns.
	cost := mat.NewDense(2, 4, []float64{
		10, 1, 10, 10,
		10, 10, 1, 10,
	})
	rowToCol, total := SolveRectangular(cost)
	require.Len(t, rowToCol, 2)
	assert.Equal(t, 2.0, total)
	assert.NotEqual(t, rowToCol[0], rowToCol[1])
}

func TestSolveRectangular_IdenticalCostsStillProducesValidPermutation(t *testing.T) {
	cost := mat.NewDense(3, 3, []float64{
		5, 5, 5,
		5, 5, 5,
		5, 5, 5,
	})
	rowToCol, total := SolveRectangular(cost)
	assert.Equal(t, 15.0, total)
	seen := map[int]bool{}
	for _, c := range rowToCol {
		seen[c] = true
	}
	assert.Len(t, seen, 3)
}

func TestSolveRectangular_NegativeCostsAreHandled(t *testing.T) {
	cost := mat.NewDense(2, 2, []float64{
		-1000000, 1,
		1, -1000000,
	})
	rowToCol, total := SolveRectangular(cost)
	assert.Equal(t, -2000000.0, total)
	assert.Equal(t, 0, rowToCol[0])
	assert.Equal(t, 1, rowToCol[1])
}
