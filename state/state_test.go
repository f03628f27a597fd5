package state

import (
	"testing"
	"time"
)

// MockState is a test double for the State interface.
// It helps us track which methods have been called.
type MockState struct {
	ID             string
	OnEnterCalled  bool
	OnExitCalled   bool
	OnUpdateCalled bool
}

func (m *MockState) OnEnter() {
	m.OnEnterCalled = true
}

func (m *MockState) OnExit() {
	m.OnExitCalled = true
}

func (m *MockState) OnUpdate() {
	m.OnUpdateCalled = true
}

func (m *MockState) GetID() string {
	return m.ID
}

// reset clears the call tracking flags.
func (m *MockState) reset() {
	m.OnEnterCalled = false
	m.OnExitCalled = false
	m.OnUpdateCalled = false
}

// MockRoom is a test double for the RoomContext interface.
type MockRoom struct {
	turns     int
	draws     int
	drawLimit int
	exhausted bool
	resets    int
}

func (m *MockRoom) GetID() string { return "test_room" }
func (m *MockRoom) BeginTurn()    { m.turns++ }
func (m *MockRoom) DrawNumber() (int, bool) {
	if m.draws >= m.drawLimit {
		return 0, false
	}
	m.draws++
	return m.draws, true
}
func (m *MockRoom) FinishExhausted() { m.exhausted = true }
func (m *MockRoom) FinishReset()     { m.resets++ }

func TestStateMachine_InitialState(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	sm := NewBaseStateMachine(initialState)

	if !initialState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the initial state")
	}

	if sm.GetCurrentState() != initialState {
		t.Error("GetCurrentState should return the initial state")
	}
}

func TestStateMachine_ChangeState(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	nextState := &MockState{ID: "next"}

	sm := NewBaseStateMachine(initialState)
	initialState.reset() // Reset after initialization

	err := sm.ChangeState(nextState)
	if err != nil {
		t.Fatalf("ChangeState should not return an error, but got: %v", err)
	}

	if !initialState.OnExitCalled {
		t.Error("Expected OnExit to be called on the old state")
	}

	if !nextState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the new state")
	}

	if sm.GetCurrentState() != nextState {
		t.Error("GetCurrentState should return the new state")
	}
}

func TestStateMachine_AddAndUseTransition(t *testing.T) {
	stateA := &MockState{ID: "A"}
	stateB := &MockState{ID: "B"}
	stateC := &MockState{ID: "C"}

	sm := NewBaseStateMachine(stateA)

	// Add a valid transition from A to B
	err := sm.AddTransition(stateA, stateB, func() bool { return true })
	if err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}

	// Add a blocked transition from B to C
	err = sm.AddTransition(stateB, stateC, func() bool { return false })
	if err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}

	// --- Test valid transition ---
	stateA.reset()
	err = sm.ChangeState(stateB)
	if err != nil {
		t.Errorf("Expected transition from A to B to be allowed, but got error: %v", err)
	}
	if sm.GetCurrentState().GetID() != "B" {
		t.Errorf("Expected current state to be B, but got %s", sm.GetCurrentState().GetID())
	}

	// --- Test blocked transition ---
	stateB.reset()
	err = sm.ChangeState(stateC)
	if err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if sm.GetCurrentState().GetID() != "B" {
		t.Errorf("Expected current state to remain B after a blocked transition, but got %s", sm.GetCurrentState().GetID())
	}
	if stateB.OnExitCalled {
		t.Error("OnExit should not be called on the current state if transition is blocked")
	}
	if stateC.OnEnterCalled {
		t.Error("OnEnter should not be called on the new state if transition is blocked")
	}
}

func TestPlayingState_DrawsEveryInterval(t *testing.T) {
	room := &MockRoom{drawLimit: 100}
	// Draw every 4 ticks.
	s := NewPlayingState(room, 400*time.Millisecond, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		s.OnUpdate()
	}
	if room.draws != 0 {
		t.Fatalf("no draw should happen before the interval elapses, got %d", room.draws)
	}

	s.OnUpdate()
	if room.draws != 1 {
		t.Fatalf("expected exactly 1 draw after the interval, got %d", room.draws)
	}
	if room.turns != 1 {
		t.Fatalf("a draw should open a new turn, got %d", room.turns)
	}

	// Next interval draws again.
	for i := 0; i < 4; i++ {
		s.OnUpdate()
	}
	if room.draws != 2 {
		t.Fatalf("expected 2 draws after two intervals, got %d", room.draws)
	}
}

func TestPlayingState_ExhaustionEndsGame(t *testing.T) {
	room := &MockRoom{drawLimit: 2}
	s := NewPlayingState(room, 100*time.Millisecond, 100*time.Millisecond)

	s.OnUpdate()
	s.OnUpdate()
	if room.exhausted {
		t.Fatal("game should not be exhausted while draws remain")
	}

	s.OnUpdate()
	if !room.exhausted {
		t.Fatal("expected FinishExhausted once DrawNumber reports no numbers left")
	}
}

func TestEndingState_ResetsAfterDelay(t *testing.T) {
	room := &MockRoom{}
	s := NewEndingState(room, 300*time.Millisecond, 100*time.Millisecond)

	s.OnUpdate()
	s.OnUpdate()
	if room.resets != 0 {
		t.Fatalf("reset should not fire before the delay elapses, got %d", room.resets)
	}

	s.OnUpdate()
	if room.resets != 1 {
		t.Fatalf("expected exactly one reset after the delay, got %d", room.resets)
	}
}
