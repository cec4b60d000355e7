// Package windetector decides whether the last move ended the game.
package windetector

import "github.com/rocketscienceinc/bulletconnect/internal/entity"

const DefaultConnectN = 4

// Board is the read-only view Evaluate needs.
type Board interface {
	Width() int
	Height() int
	At(row, col int) entity.Token
	IsFull() bool
}

type direction struct {
	dRow int
	dCol int
}

// axes are scanned in this order: horizontal, vertical,
// diagonal-down-right, diagonal-down-left.
var axes = [4]direction{
	{dRow: 0, dCol: 1},
	{dRow: 1, dCol: 0},
	{dRow: -1, dCol: 1},
	{dRow: -1, dCol: -1},
}

// Evaluate - checks the lines through last for a run of connectN tokens.
// A connectN of zero or less uses DefaultConnectN.
func Evaluate(board Board, last entity.Cell, connectN int) entity.WinResult {
	if connectN <= 0 {
		connectN = DefaultConnectN
	}

	if token := board.At(last.Row, last.Col); token.IsPlayer() && contains(board, last.Row, last.Col) {
		for _, axis := range axes {
			if line, ok := scanAxis(board, last, token, axis, connectN); ok {
				return entity.WinFor(token, line)
			}
		}
	}

	if board.IsFull() {
		return entity.DrawResult()
	}

	return entity.NoResult()
}

// scanAxis returns the winning window along axis. The window starts at last
// when the run reaches far enough forward, otherwise it is shifted back just
// enough to fit inside the run.
func scanAxis(board Board, last entity.Cell, token entity.Token, axis direction, connectN int) ([]entity.Cell, bool) {
	forward := countRun(board, last, token, axis.dRow, axis.dCol)
	backward := countRun(board, last, token, -axis.dRow, -axis.dCol)

	if forward+backward+1 < connectN {
		return nil, false
	}

	start := 0
	if forward+1 < connectN {
		start = forward + 1 - connectN
	}

	line := make([]entity.Cell, connectN)
	for i := range line {
		step := start + i
		line[i] = entity.Cell{
			Row: last.Row + step*axis.dRow,
			Col: last.Col + step*axis.dCol,
		}
	}

	return line, true
}

func countRun(board Board, from entity.Cell, token entity.Token, dRow, dCol int) int {
	count := 0
	row, col := from.Row+dRow, from.Col+dCol
	for contains(board, row, col) && board.At(row, col) == token {
		count++
		row += dRow
		col += dCol
	}

	return count
}

func contains(board Board, row, col int) bool {
	return row >= 0 && row < board.Height() && col >= 0 && col < board.Width()
}
