package pattern

import (
	"sort"
	"testing"
)

func TestCheck_EmptyAndMalformedInput(t *testing.T) {
	if res := Check(nil); res.IsBingo {
		t.Error("nil input should not be a bingo")
	}
	if res := Check([]string{}); res.IsBingo {
		t.Error("empty input should not be a bingo")
	}
	if res := Check([]string{"xx", "99", "", "banana", "1"}); res.IsBingo {
		t.Error("malformed identifiers should never match")
	}
}

func TestCheck_FullCardMinusFreeCellRowByRow(t *testing.T) {
	// Four marks on a non-centre row is not enough.
	if res := Check([]string{"11", "21", "31", "41"}); res.IsBingo {
		t.Error("four marks on row 1 should not be a bingo")
	}
}

func TestCheck_HorizontalRow(t *testing.T) {
	res := Check([]string{"11", "21", "31", "41", "51"})
	if !res.IsBingo {
		t.Fatal("full row 1 should be a bingo")
	}
	if res.PatternType != TypeHorizontal {
		t.Errorf("expected pattern %q, got %q", TypeHorizontal, res.PatternType)
	}
	if len(res.WinningCells) != 5 {
		t.Errorf("expected 5 winning cells, got %v", res.WinningCells)
	}
}

func TestCheck_HorizontalCentreRowUsesFreeCell(t *testing.T) {
	// Row 3 only needs the four non-free cells; the free cell is implicit.
	res := Check([]string{"13", "23", "43", "53"})
	if !res.IsBingo {
		t.Fatal("row 3 with four marks should be a bingo")
	}
	if res.PatternType != TypeHorizontal {
		t.Errorf("expected pattern %q, got %q", TypeHorizontal, res.PatternType)
	}
	if !contains(res.WinningCells, FreeCell) {
		t.Errorf("free cell should be reported in winning cells, got %v", res.WinningCells)
	}
}

func TestCheck_Vertical(t *testing.T) {
	res := Check([]string{"21", "22", "23", "24", "25"})
	if !res.IsBingo || res.PatternType != TypeVertical {
		t.Fatalf("full column 2 should be a vertical bingo, got %+v", res)
	}

	// Column 3 gets the same free-space relaxation.
	res = Check([]string{"31", "32", "34", "35"})
	if !res.IsBingo || res.PatternType != TypeVertical {
		t.Fatalf("column 3 with four marks should be a vertical bingo, got %+v", res)
	}
	if !contains(res.WinningCells, FreeCell) {
		t.Errorf("free cell should be reported, got %v", res.WinningCells)
	}
}

func TestCheck_Diagonals(t *testing.T) {
	res := Check([]string{"11", "22", "44", "55"})
	if !res.IsBingo || res.PatternType != TypeDiagonal {
		t.Fatalf("main diagonal should be a bingo, got %+v", res)
	}
	if !contains(res.WinningCells, FreeCell) {
		t.Errorf("free cell should be included in diagonal win, got %v", res.WinningCells)
	}

	res = Check([]string{"15", "24", "42", "51"})
	if !res.IsBingo || res.PatternType != TypeDiagonal {
		t.Fatalf("anti-diagonal should be a bingo, got %+v", res)
	}
}

func TestCheck_Corners(t *testing.T) {
	res := Check([]string{"11", "15", "51", "55"})
	if !res.IsBingo || res.PatternType != TypeCorners {
		t.Fatalf("four corners should be a bingo, got %+v", res)
	}
	want := []string{"11", "15", "51", "55"}
	got := append([]string{}, res.WinningCells...)
	sort.Strings(got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("winning cells mismatch: got %v", res.WinningCells)
		}
	}

	if res := Check([]string{"11", "15", "51"}); res.IsBingo {
		t.Error("three corners should not be a bingo")
	}
}

func TestCheck_PriorityOrder(t *testing.T) {
	// Set satisfies both a horizontal row and corners; horizontal wins.
	cells := []string{"11", "21", "31", "41", "51", "15", "55"}
	res := Check(cells)
	if res.PatternType != TypeHorizontal {
		t.Errorf("horizontal should take priority, got %q", res.PatternType)
	}

	// Set satisfies both a diagonal and corners; diagonal wins.
	cells = []string{"11", "22", "44", "55", "15", "51"}
	res = Check(cells)
	if res.PatternType != TypeDiagonal {
		t.Errorf("diagonal should take priority over corners, got %q", res.PatternType)
	}
}

func TestCheck_FreeCellAloneDoesNotHelpOtherLines(t *testing.T) {
	// Free cell in the input must not count towards a non-centre row.
	if res := Check([]string{"11", "21", "41", "51", "33"}); res.IsBingo {
		t.Errorf("free cell must not complete row 1, got %+v", res)
	}
}

func contains(cells []string, want string) bool {
	for _, c := range cells {
		if c == want {
			return true
		}
	}
	return false
}
