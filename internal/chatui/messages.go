package chatui

import "github.com/abhisek/viva/internal/tutor"

// turnDoneMsg carries the result of an asynchronous turn.
type turnDoneMsg struct {
	Out tutor.TurnOutput
	Err error
}
