// Package pattern decides whether a set of marked bingo cells forms a win.
// Cell identifiers are two characters, "<col><row>" with col and row in 1..5.
// The centre cell "33" is the free space and is always considered marked.
package pattern

import "fmt"

// FreeCell is the fixed free-space identifier (col 3, row 3).
const FreeCell = "33"

const (
	TypeHorizontal = "horizontal"
	TypeVertical   = "vertical"
	TypeDiagonal   = "diagonal"
	TypeCorners    = "corners"
)

// Result reports the outcome of a pattern check.
type Result struct {
	IsBingo      bool     `json:"isBingo"`
	PatternType  string   `json:"patternType,omitempty"`
	WinningCells []string `json:"winningCells,omitempty"`
}

var (
	diagonalLeft  = []string{"11", "22", "44", "55"}
	diagonalRight = []string{"15", "24", "42", "51"}
	corners       = []string{"11", "15", "51", "55"}
)

// Check evaluates the marked set against every winning shape in fixed
// priority order: horizontal, vertical, diagonal, corners. The first match
// wins. Unknown or malformed identifiers simply never match; the function
// never fails.
func Check(cells []string) Result {
	if len(cells) < 4 {
		return Result{}
	}

	marked := make(map[string]bool, len(cells))
	for _, c := range cells {
		if c != FreeCell {
			marked[c] = true
		}
	}

	if res := checkLines(marked, TypeHorizontal); res.IsBingo {
		return res
	}
	if res := checkLines(marked, TypeVertical); res.IsBingo {
		return res
	}
	if res := checkDiagonal(marked); res.IsBingo {
		return res
	}
	return checkCorners(marked)
}

// checkLines covers both orientations: rows for horizontal, columns for
// vertical. The line through the centre only needs its four non-free cells.
func checkLines(marked map[string]bool, patternType string) Result {
	for line := 1; line <= 5; line++ {
		required := 5
		if line == 3 {
			required = 4
		}
		var cells []string
		for i := 1; i <= 5; i++ {
			var id string
			if patternType == TypeHorizontal {
				id = fmt.Sprintf("%d%d", i, line)
			} else {
				id = fmt.Sprintf("%d%d", line, i)
			}
			if marked[id] {
				cells = append(cells, id)
			}
		}
		if len(cells) >= required {
			if line == 3 {
				cells = append(cells, FreeCell)
			}
			return Result{IsBingo: true, PatternType: patternType, WinningCells: cells}
		}
	}
	return Result{}
}

func checkDiagonal(marked map[string]bool) Result {
	for _, diag := range [][]string{diagonalLeft, diagonalRight} {
		if allMarked(marked, diag) {
			cells := append(append([]string{}, diag...), FreeCell)
			return Result{IsBingo: true, PatternType: TypeDiagonal, WinningCells: cells}
		}
	}
	return Result{}
}

func checkCorners(marked map[string]bool) Result {
	if allMarked(marked, corners) {
		return Result{IsBingo: true, PatternType: TypeCorners, WinningCells: append([]string{}, corners...)}
	}
	return Result{}
}

func allMarked(marked map[string]bool, cells []string) bool {
	for _, c := range cells {
		if !marked[c] {
			return false
		}
	}
	return true
}
