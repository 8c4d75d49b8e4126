package engine

// GamePhase represents where the current turn stands.
type GamePhase int

const (
	PhaseSetup    GamePhase = iota // board built, first turn not started
	PhaseRoll                      // current player must roll
	PhaseActions                   // dice resolved, player spends the action budget
	PhaseGameOver                  // a headquarters has all floors
)

var phaseNames = map[GamePhase]string{
	PhaseSetup:    "Setup",
	PhaseRoll:     "Roll",
	PhaseActions:  "Actions",
	PhaseGameOver: "GameOver",
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}
