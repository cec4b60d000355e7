// Package grid stores board occupancy for a fixed-size gravity-drop board.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/bulletconnect/internal/apperror"
	"github.com/rocketscienceinc/bulletconnect/internal/entity"
)

var (
	ErrInvalidSize  = errors.New("grid dimensions must be positive")
	ErrInvalidToken = errors.New("only player tokens can be dropped")
)

// Grid is a column-major cell store. Row 0 is the bottom of each column.
type Grid struct {
	width  int
	height int
	cells  []entity.Token
}

func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  make([]entity.Token, width*height),
	}, nil
}

func (that *Grid) Width() int {
	return that.width
}

func (that *Grid) Height() int {
	return that.height
}

// NextRow - returns the lowest empty row of the column without changing the grid.
func (that *Grid) NextRow(col int) (int, error) {
	if col < 0 || col >= that.width {
		return 0, fmt.Errorf("%w: column %d out of range", apperror.ErrInvalidMove, col)
	}

	row := that.ColumnHeight(col)
	if row == that.height {
		return 0, fmt.Errorf("%w: column %d is full", apperror.ErrInvalidMove, col)
	}

	return row, nil
}

// Drop - places token at the lowest empty row of col and returns the resolved cell.
func (that *Grid) Drop(col int, token entity.Token) (entity.Cell, error) {
	if !token.IsPlayer() {
		return entity.Cell{}, ErrInvalidToken
	}

	row, err := that.NextRow(col)
	if err != nil {
		return entity.Cell{}, err
	}

	that.cells[that.offset(row, col)] = token

	return entity.Cell{Row: row, Col: col}, nil
}

// At returns Empty for coordinates outside the grid.
func (that *Grid) At(row, col int) entity.Token {
	if !that.Contains(row, col) {
		return entity.Empty
	}

	return that.cells[that.offset(row, col)]
}

func (that *Grid) Contains(row, col int) bool {
	return row >= 0 && row < that.height && col >= 0 && col < that.width
}

// ColumnHeight - number of tokens stacked in col.
func (that *Grid) ColumnHeight(col int) int {
	if col < 0 || col >= that.width {
		return 0
	}

	height := 0
	for row := 0; row < that.height; row++ {
		if that.cells[that.offset(row, col)] == entity.Empty {
			break
		}
		height++
	}

	return height
}

func (that *Grid) Filled() int {
	filled := 0
	for _, cell := range that.cells {
		if cell != entity.Empty {
			filled++
		}
	}

	return filled
}

func (that *Grid) IsFull() bool {
	return that.Filled() == len(that.cells)
}

// Index - position of (row, col) inside the slice returned by Occupancy.
func (that *Grid) Index(row, col int) int {
	return row*that.width + col
}

// Occupancy - returns a row-major copy of the cells, bottom row first.
func (that *Grid) Occupancy() []entity.Token {
	snapshot := make([]entity.Token, len(that.cells))
	for row := 0; row < that.height; row++ {
		for col := 0; col < that.width; col++ {
			snapshot[that.Index(row, col)] = that.cells[that.offset(row, col)]
		}
	}

	return snapshot
}

// String renders the grid top row first, for logs and test failures.
func (that *Grid) String() string {
	var sb strings.Builder
	for row := that.height - 1; row >= 0; row-- {
		for col := 0; col < that.width; col++ {
			sb.WriteString(that.At(row, col).String())
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func (that *Grid) offset(row, col int) int {
	return col*that.height + row
}
