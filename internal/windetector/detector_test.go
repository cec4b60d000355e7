package windetector

import (
	"testing"

	"github.com/rocketscienceinc/bulletconnect/internal/entity"
	"github.com/rocketscienceinc/bulletconnect/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	a = entity.PlayerA
	b = entity.PlayerB
)

// stack drops tokens into col bottom-up and returns the last resolved cell.
func stack(t *testing.T, g *grid.Grid, col int, tokens ...entity.Token) entity.Cell {
	t.Helper()

	var cell entity.Cell
	for _, token := range tokens {
		var err error
		cell, err = g.Drop(col, token)
		require.NoError(t, err)
	}

	return cell
}

func newGrid(t *testing.T, width, height int) *grid.Grid {
	t.Helper()

	g, err := grid.New(width, height)
	require.NoError(t, err)

	return g
}

func cells(coords ...[2]int) []entity.Cell {
	line := make([]entity.Cell, len(coords))
	for i, c := range coords {
		line[i] = entity.Cell{Row: c[0], Col: c[1]}
	}

	return line
}

func TestEvaluate_Horizontal(t *testing.T) {
	t.Run("Last token at the end of the run", func(t *testing.T) {
		// Given: three A tokens on the bottom row
		g := newGrid(t, 7, 6)
		stack(t, g, 0, a)
		stack(t, g, 1, a)
		stack(t, g, 2, a)

		// When: A completes the row at column 3
		last := stack(t, g, 3, a)
		result := Evaluate(g, last, 4)

		// Then: A wins with columns 0 to 3
		require.True(t, result.IsWin())
		assert.Equal(t, a, result.Player)
		assert.Equal(t, cells([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}), result.Line)
	})

	t.Run("Last token in the middle of the run", func(t *testing.T) {
		// Given: A tokens on columns 0, 1 and 3
		g := newGrid(t, 7, 6)
		stack(t, g, 0, a)
		stack(t, g, 1, a)
		stack(t, g, 3, a)

		// When: A fills the gap
		last := stack(t, g, 2, a)
		result := Evaluate(g, last, 4)

		// Then: the window is shifted back just enough
		require.True(t, result.IsWin())
		assert.Equal(t, cells([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}), result.Line)
	})

	t.Run("Longer run starts the window at the last token", func(t *testing.T) {
		// Given: A tokens on columns 0, 2, 3 and 4
		g := newGrid(t, 7, 6)
		stack(t, g, 0, a)
		stack(t, g, 2, a)
		stack(t, g, 3, a)
		stack(t, g, 4, a)

		// When: A drops into column 1 making a run of five
		last := stack(t, g, 1, a)
		result := Evaluate(g, last, 4)

		// Then: the line begins at the placed token
		require.True(t, result.IsWin())
		assert.Equal(t, cells([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4}), result.Line)
	})
}

func TestEvaluate_Vertical(t *testing.T) {
	// Given: three A tokens stacked on a B token
	g := newGrid(t, 7, 6)
	stack(t, g, 5, b, a, a, a)

	// When: A drops a fourth token on top
	last := stack(t, g, 5, a)
	result := Evaluate(g, last, 4)

	// Then: the vertical line is rows 1 to 4
	require.True(t, result.IsWin())
	assert.Equal(t, a, result.Player)
	assert.Equal(t, cells([2]int{1, 5}, [2]int{2, 5}, [2]int{3, 5}, [2]int{4, 5}), result.Line)
}

func TestEvaluate_Diagonals(t *testing.T) {
	t.Run("Diagonal down-right", func(t *testing.T) {
		// Given: a staircase of A tokens from (3,0) down to (1,2)
		g := newGrid(t, 7, 6)
		stack(t, g, 0, b, b, b, a)
		stack(t, g, 1, b, b, a)
		stack(t, g, 2, b, a)

		// When: A lands on (0,3)
		last := stack(t, g, 3, a)
		result := Evaluate(g, last, 4)

		// Then: the diagonal wins, ordered along the down-right direction
		require.True(t, result.IsWin())
		assert.Equal(t, cells([2]int{3, 0}, [2]int{2, 1}, [2]int{1, 2}, [2]int{0, 3}), result.Line)
	})

	t.Run("Diagonal down-left", func(t *testing.T) {
		// Given: A tokens on (0,0), (1,1) and (2,2)
		g := newGrid(t, 7, 6)
		stack(t, g, 0, a)
		stack(t, g, 1, b, a)
		stack(t, g, 2, b, b, a)

		// When: A lands on (3,3)
		last := stack(t, g, 3, b, b, b, a)
		result := Evaluate(g, last, 4)

		// Then: the line starts at the placed token and walks down-left
		require.True(t, result.IsWin())
		assert.Equal(t, cells([2]int{3, 3}, [2]int{2, 2}, [2]int{1, 1}, [2]int{0, 0}), result.Line)
	})
}

func TestEvaluate_ScanOrder(t *testing.T) {
	// Given: a token that completes both a row and a column
	g := newGrid(t, 7, 6)
	stack(t, g, 0, b, b, b, a)
	stack(t, g, 1, b, b, b, a)
	stack(t, g, 2, b, b, b, a)
	stack(t, g, 3, a, a, a)

	// When: A lands on (3,3)
	last := stack(t, g, 3, a)
	result := Evaluate(g, last, 4)

	// Then: the horizontal line is reported first
	require.True(t, result.IsWin())
	assert.Equal(t, cells([2]int{3, 0}, [2]int{3, 1}, [2]int{3, 2}, [2]int{3, 3}), result.Line)
}

func TestEvaluate_NoWin(t *testing.T) {
	t.Run("Single token", func(t *testing.T) {
		g := newGrid(t, 7, 6)
		last := stack(t, g, 3, a)

		assert.Equal(t, entity.NoResult(), Evaluate(g, last, 4))
	})

	t.Run("Three in a row with default length", func(t *testing.T) {
		// Given: three A tokens in a row
		g := newGrid(t, 7, 6)
		stack(t, g, 0, a)
		stack(t, g, 1, a)
		last := stack(t, g, 2, a)

		// When: evaluating with a non-positive length
		result := Evaluate(g, last, 0)

		// Then: the default of four applies
		assert.False(t, result.IsWin())
	})

	t.Run("Empty last cell", func(t *testing.T) {
		g := newGrid(t, 3, 3)

		assert.Equal(t, entity.NoResult(), Evaluate(g, entity.Cell{Row: 2, Col: 2}, 3))
		assert.Equal(t, entity.NoResult(), Evaluate(g, entity.Cell{Row: 9, Col: -1}, 3))
	})
}

func TestEvaluate_Draw(t *testing.T) {
	t.Run("Full board without a line", func(t *testing.T) {
		// Given: a 2x2 board filled with alternating tokens
		g := newGrid(t, 2, 2)
		stack(t, g, 0, a, b)
		last := stack(t, g, 1, b, a)

		// Then: the result is a draw
		assert.Equal(t, entity.DrawResult(), Evaluate(g, last, 4))
	})

	t.Run("Winning move that fills the board", func(t *testing.T) {
		// Given: a 3x1 board with two A tokens
		g := newGrid(t, 3, 1)
		stack(t, g, 0, a)
		stack(t, g, 1, a)

		// When: A fills the last cell
		last := stack(t, g, 2, a)
		result := Evaluate(g, last, 3)

		// Then: the win takes precedence over the draw
		assert.True(t, result.IsWin())
	})
}

func TestEvaluate_Idempotent(t *testing.T) {
	// Given: a board with a diagonal win
	g := newGrid(t, 4, 4)
	stack(t, g, 0, a)
	stack(t, g, 1, b, a)
	last := stack(t, g, 2, b, b, a)
	before := g.Occupancy()

	// When: evaluating twice
	first := Evaluate(g, last, 3)
	second := Evaluate(g, last, 3)

	// Then: both results match and the board is untouched
	assert.Equal(t, first, second)
	assert.True(t, first.IsWin())
	assert.Equal(t, before, g.Occupancy())
}
