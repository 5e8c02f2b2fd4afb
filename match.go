package main

// MatchPhase represents the lifecycle of a deathmatch round
type MatchPhase int

const (
	PhaseLobby     MatchPhase = 0
	PhaseCountdown MatchPhase = 1
	PhasePlaying   MatchPhase = 2
	PhaseResult    MatchPhase = 3
)

const (
	MatchTimeLimit  = 300.0 // seconds
	MatchScoreLimit = 30
	CountdownTime   = 3.0
	ResultTime      = 10.0
)

// MatchState tracks the round lifecycle for one arena session
type MatchState struct {
	Phase       MatchPhase
	TimeLeft    float64
	CountdownT  float64
	ResultTimer float64
	Ready       map[string]bool
	Elapsed     float64 // playing time accumulated, for persistence
}

// NewMatchState returns a lobby-phase match
func NewMatchState() MatchState {
	return MatchState{
		Phase:    PhaseLobby,
		TimeLeft: MatchTimeLimit,
		Ready:    make(map[string]bool),
	}
}

// AllReady reports whether every listed player has readied up.
func (ms *MatchState) AllReady(playerIDs []string) bool {
	if len(playerIDs) == 0 {
		return false
	}
	for _, id := range playerIDs {
		if !ms.Ready[id] {
			return false
		}
	}
	return true
}

// StartCountdown moves lobby -> countdown.
func (ms *MatchState) StartCountdown() {
	ms.Phase = PhaseCountdown
	ms.CountdownT = CountdownTime
}

// StartPlaying moves countdown -> playing with a fresh timer.
func (ms *MatchState) StartPlaying() {
	ms.Phase = PhasePlaying
	ms.TimeLeft = MatchTimeLimit
	ms.Elapsed = 0
}

// Finish moves playing -> result.
func (ms *MatchState) Finish() {
	ms.Phase = PhaseResult
	ms.ResultTimer = ResultTime
}

// Reset returns to the lobby with ready flags cleared.
func (ms *MatchState) Reset() {
	ms.Phase = PhaseLobby
	ms.TimeLeft = MatchTimeLimit
	ms.Ready = make(map[string]bool)
}
