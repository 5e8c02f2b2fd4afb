package main

import "testing"

func TestMatchLifecycle(t *testing.T) {
	ms := NewMatchState()
	if ms.Phase != PhaseLobby {
		t.Fatal("fresh match should sit in the lobby")
	}

	ms.StartCountdown()
	if ms.Phase != PhaseCountdown || ms.CountdownT != CountdownTime {
		t.Error("countdown should arm its timer")
	}

	ms.StartPlaying()
	if ms.Phase != PhasePlaying || ms.TimeLeft != MatchTimeLimit || ms.Elapsed != 0 {
		t.Error("playing should reset the round timer")
	}

	ms.Finish()
	if ms.Phase != PhaseResult || ms.ResultTimer != ResultTime {
		t.Error("finish should arm the result timer")
	}

	ms.Ready["x"] = true
	ms.Reset()
	if ms.Phase != PhaseLobby || len(ms.Ready) != 0 {
		t.Error("reset should return to an empty lobby")
	}
}

func TestAllReady(t *testing.T) {
	ms := NewMatchState()
	if ms.AllReady(nil) {
		t.Error("an empty lobby is never ready")
	}

	ms.Ready["a"] = true
	if ms.AllReady([]string{"a", "b"}) {
		t.Error("one unready player blocks the start")
	}

	ms.Ready["b"] = true
	if !ms.AllReady([]string{"a", "b"}) {
		t.Error("all players ready should start the match")
	}
}
