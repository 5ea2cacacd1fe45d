package game

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// noFood is a food position no test snake can reach.
var noFood = core.Cell{X: -100, Y: -100}

func newTestGrid(t *testing.T) core.Grid {
	t.Helper()
	grid, err := core.NewGrid(400, 400, 20) // 20x20 cells
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	return grid
}

func newTestSnake(heading Heading, cells ...core.Cell) *Snake {
	return &Snake{body: cells, heading: heading, pending: heading}
}

func TestAdvanceMovesOneCell(t *testing.T) {
	tests := []struct {
		name     string
		heading  Heading
		expected core.Cell
	}{
		{"right", HeadingRight, core.Cell{X: 6, Y: 5}},
		{"left", HeadingLeft, core.Cell{X: 4, Y: 5}},
		{"up", HeadingUp, core.Cell{X: 5, Y: 4}},
		{"down", HeadingDown, core.Cell{X: 5, Y: 6}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSnake(tc.heading, core.Cell{X: 5, Y: 5}, core.Cell{X: 5, Y: 5}.Add(tc.heading.Reverse().Delta()))
			before := s.Head()

			res := s.Advance(tc.heading, noFood)

			if res.Head != tc.expected || s.Head() != tc.expected {
				t.Errorf("Advance() head = %v, expected %v", res.Head, tc.expected)
			}
			if s.Body()[1] != before {
				t.Errorf("Previous head should become second segment, got %v", s.Body()[1])
			}
			if res.AteFood {
				t.Error("AteFood should be false without food")
			}
		})
	}
}

func TestAdvanceSingleSegmentWithoutFood(t *testing.T) {
	s := NewSnake(core.Cell{X: 5, Y: 5}, HeadingRight)

	res := s.Advance(HeadingRight, core.Cell{X: 10, Y: 10})

	body := s.Body()
	if len(body) != 1 || body[0] != (core.Cell{X: 6, Y: 5}) {
		t.Errorf("Body() = %v, expected [{6 5}]", body)
	}
	if res.AteFood {
		t.Error("AteFood should be false")
	}
}

func TestAdvanceEatsFood(t *testing.T) {
	s := newTestSnake(HeadingRight, core.Cell{X: 5, Y: 5}, core.Cell{X: 4, Y: 5})

	res := s.Advance(HeadingRight, core.Cell{X: 6, Y: 5})

	expected := []core.Cell{{X: 6, Y: 5}, {X: 5, Y: 5}, {X: 4, Y: 5}}
	body := s.Body()
	if len(body) != len(expected) {
		t.Fatalf("Len() = %d, expected %d", len(body), len(expected))
	}
	for i := range expected {
		if body[i] != expected[i] {
			t.Errorf("Body()[%d] = %v, expected %v", i, body[i], expected[i])
		}
	}
	if !res.AteFood {
		t.Error("AteFood should be true when head lands on food")
	}
}

func TestAdvanceKeepsLengthWithoutFood(t *testing.T) {
	s := newTestSnake(HeadingRight,
		core.Cell{X: 5, Y: 5}, core.Cell{X: 4, Y: 5}, core.Cell{X: 3, Y: 5}, core.Cell{X: 2, Y: 5})

	for i := 0; i < 5; i++ {
		s.Advance(HeadingRight, noFood)
		if s.Len() != 4 {
			t.Fatalf("After %d moves Len() = %d, expected 4", i+1, s.Len())
		}
	}
	if s.Body()[3] != (core.Cell{X: 7, Y: 5}) {
		t.Errorf("Tail = %v, expected {7 5}", s.Body()[3])
	}
}

func TestAdvanceGrowthNeverShortens(t *testing.T) {
	s := NewSnake(core.Cell{X: 0, Y: 0}, HeadingRight)
	for i := 1; i <= 5; i++ {
		food := s.Head().Add(1, 0)
		res := s.Advance(HeadingRight, food)
		if !res.AteFood {
			t.Fatalf("Move %d: AteFood should be true", i)
		}
		if s.Len() != i+1 {
			t.Errorf("Move %d: Len() = %d, expected %d", i, s.Len(), i+1)
		}
	}
}

func TestAdvanceCommitsHeading(t *testing.T) {
	s := NewSnake(core.Cell{X: 5, Y: 5}, HeadingRight)
	s.Turn(HeadingUp)

	s.Advance(s.Pending(), noFood)

	if s.Heading() != HeadingUp {
		t.Errorf("Heading() = %v, expected up", s.Heading())
	}
	if s.Pending() != HeadingUp {
		t.Errorf("Pending() = %v, expected up", s.Pending())
	}
}

func TestIsColliding(t *testing.T) {
	grid := newTestGrid(t)

	tests := []struct {
		name     string
		body     []core.Cell
		expected bool
	}{
		{"inside", []core.Cell{{X: 5, Y: 5}}, false},
		{"origin", []core.Cell{{X: 0, Y: 0}}, false},
		{"last cell", []core.Cell{{X: 19, Y: 19}}, false},
		{"x below zero", []core.Cell{{X: -1, Y: 5}}, true},
		{"x at width", []core.Cell{{X: 20, Y: 5}}, true},
		{"y below zero", []core.Cell{{X: 5, Y: -1}}, true},
		{"y at height", []core.Cell{{X: 5, Y: 20}}, true},
		{"head on body", []core.Cell{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5}}, true},
		{"head on tail only", []core.Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 5, Y: 5}}, true},
		{"body crossing elsewhere", []core.Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 4, Y: 6}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSnake(HeadingRight, tc.body...)
			if got := s.IsColliding(grid); got != tc.expected {
				t.Errorf("IsColliding() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestLeftWallScenario(t *testing.T) {
	grid := newTestGrid(t)
	s := NewSnake(core.Cell{X: 0, Y: 5}, HeadingLeft)

	res := s.Advance(HeadingLeft, noFood)

	if res.Head != (core.Cell{X: -1, Y: 5}) {
		t.Errorf("Head = %v, expected {-1 5}", res.Head)
	}
	if !s.IsColliding(grid) {
		t.Error("IsColliding() should be true after leaving the board")
	}
}

func TestSelfCollisionAfterAdvance(t *testing.T) {
	grid := newTestGrid(t)
	// Moving up from (5,5) lands on (5,4), which is still occupied.
	s := newTestSnake(HeadingLeft,
		core.Cell{X: 5, Y: 5}, core.Cell{X: 6, Y: 5}, core.Cell{X: 6, Y: 4}, core.Cell{X: 5, Y: 4}, core.Cell{X: 4, Y: 4})

	s.Advance(HeadingUp, noFood)

	if !s.IsColliding(grid) {
		t.Error("IsColliding() should be true after running into the body")
	}
}

func TestTurnRejectsReversal(t *testing.T) {
	tests := []struct {
		committed Heading
		reverse   Heading
	}{
		{HeadingRight, HeadingLeft},
		{HeadingLeft, HeadingRight},
		{HeadingUp, HeadingDown},
		{HeadingDown, HeadingUp},
	}

	for _, tc := range tests {
		t.Run(tc.committed.String(), func(t *testing.T) {
			s := NewSnake(core.Cell{X: 5, Y: 5}, tc.committed)
			if s.Turn(tc.reverse) {
				t.Errorf("Turn(%v) should be rejected while heading %v", tc.reverse, tc.committed)
			}
			if s.Pending() != tc.committed {
				t.Errorf("Pending() = %v, expected %v", s.Pending(), tc.committed)
			}
		})
	}
}

func TestTurnComparesAgainstCommittedHeading(t *testing.T) {
	s := NewSnake(core.Cell{X: 5, Y: 5}, HeadingRight)

	// Up is accepted, Left is still the reverse of the committed Right.
	if !s.Turn(HeadingUp) {
		t.Fatal("Turn(up) should be accepted")
	}
	if s.Turn(HeadingLeft) {
		t.Error("Turn(left) should be rejected until a move commits up")
	}
	if s.Pending() != HeadingUp {
		t.Errorf("Pending() = %v, expected up", s.Pending())
	}

	// Last valid press wins.
	s.Turn(HeadingDown)
	if s.Pending() != HeadingDown {
		t.Errorf("Pending() = %v, expected down", s.Pending())
	}

	s.Advance(s.Pending(), noFood)
	if !s.Turn(HeadingLeft) {
		t.Error("Turn(left) should be accepted after committing down")
	}
}

func TestHeadingParse(t *testing.T) {
	for _, h := range []Heading{HeadingUp, HeadingDown, HeadingLeft, HeadingRight} {
		got, err := ParseHeading(h.String())
		if err != nil || got != h {
			t.Errorf("ParseHeading(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := ParseHeading("north"); err == nil {
		t.Error("ParseHeading should reject unknown names")
	}
}
