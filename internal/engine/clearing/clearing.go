// Package clearing detects completed lines, resets them and scores the event.
package clearing

import (
	"github.com/tetrix-game/tetrix/internal/engine/board"
)

// Line is a cleared row or column with the color used to tint its animation.
type Line struct {
	Index int
	Color board.Color
}

// ScoreData summarizes one clearing event.
type ScoreData struct {
	RowsCleared    int
	ColumnsCleared int
	PointsEarned   int
}

// Result is the outcome of clearing a board after a placement.
type Result struct {
	Rows    []Line
	Columns []Line
	Score   ScoreData
}

// Lines returns the total number of lines cleared.
func (r Result) Lines() int {
	return len(r.Rows) + len(r.Columns)
}

// Points computes (rows² + columns² + 2·rows·columns) × multiplier.
func Points(rows, columns, multiplier int) int {
	return (rows*rows + columns*columns + 2*rows*columns) * multiplier
}

// Detect finds every full row and column without changing the board.
// A line is full when every tile on it is filled, whatever the colors.
func Detect(b *board.Board) (rows, columns []Line) {
	n := b.Size()
	for i := 1; i <= n; i++ {
		if b.RowFilled(i) {
			rows = append(rows, Line{Index: i, Color: lineColor(b, i, true)})
		}
		if b.ColumnFilled(i) {
			columns = append(columns, Line{Index: i, Color: lineColor(b, i, false)})
		}
	}
	return rows, columns
}

// lineColor picks the most common block color along a line.
// Ties go to the color seen first.
func lineColor(b *board.Board, index int, row bool) board.Color {
	var counts [board.ColorCount]int
	best, bestCount := board.ColorGrey, 0
	for i := 1; i <= b.Size(); i++ {
		p := board.P(index, i)
		if !row {
			p = board.P(i, index)
		}
		c := b.ColorAt(p)
		if c >= board.ColorCount {
			continue
		}
		counts[c]++
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// Apply empties every tile on the given lines. A tile where a cleared row
// crosses a cleared column is emptied once.
func Apply(b *board.Board, rows, columns []Line) {
	n := b.Size()
	cleared := make([]bool, n*n)
	reset := func(p board.Position) {
		i := (p.Row-1)*n + (p.Col - 1)
		if cleared[i] {
			return
		}
		cleared[i] = true
		b.Empty(p)
	}
	for _, l := range rows {
		for col := 1; col <= n; col++ {
			reset(board.P(l.Index, col))
		}
	}
	for _, l := range columns {
		for row := 1; row <= n; row++ {
			reset(board.P(row, l.Index))
		}
	}
}

// Clear detects full lines, resets them and scores the event.
func Clear(b *board.Board, multiplier int) Result {
	rows, columns := Detect(b)
	Apply(b, rows, columns)
	return Result{
		Rows:    rows,
		Columns: columns,
		Score: ScoreData{
			RowsCleared:    len(rows),
			ColumnsCleared: len(columns),
			PointsEarned:   Points(len(rows), len(columns), multiplier),
		},
	}
}

// ComboLevel maps a clear to the 1-4 level used for feedback; 0 means no clear.
func ComboLevel(r Result) int {
	return min(r.Lines(), 4)
}
