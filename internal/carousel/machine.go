// Package carousel drives an auto-advancing slideshow: a pure transition
// function over (State, Event) and a Controller that owns the timer.
package carousel

import "fmt"

type Mode int

const (
	Playing Mode = iota
	Paused
)

func (m Mode) String() string {
	if m == Paused {
		return "paused"
	}
	return "playing"
}

type State struct {
	Index int
	Mode  Mode
}

func (s State) Paused() bool { return s.Mode == Paused }

type EventKind int

const (
	EventTick EventKind = iota
	EventPause
	EventResume
	EventNext
	EventPrevious
	EventGoTo
)

type Event struct {
	Kind EventKind
	// Index is only read by EventGoTo.
	Index int
}

func Tick() Event      { return Event{Kind: EventTick} }
func Pause() Event     { return Event{Kind: EventPause} }
func Resume() Event    { return Event{Kind: EventResume} }
func Next() Event      { return Event{Kind: EventNext} }
func Previous() Event  { return Event{Kind: EventPrevious} }
func GoTo(i int) Event { return Event{Kind: EventGoTo, Index: i} }

// Transition applies e to s over n items. n must be positive and GoTo must
// carry an index in [0, n); both are caller bugs and panic.
func Transition(s State, e Event, n int) State {
	if n <= 0 {
		panic("carousel: transition over empty item list")
	}
	switch e.Kind {
	case EventTick:
		if s.Mode == Playing {
			s.Index = (s.Index + 1) % n
		}
	case EventPause:
		s.Mode = Paused
	case EventResume:
		s.Mode = Playing
	case EventNext:
		s.Index = (s.Index + 1) % n
	case EventPrevious:
		s.Index = (s.Index - 1 + n) % n
	case EventGoTo:
		if e.Index < 0 || e.Index >= n {
			panic(fmt.Sprintf("carousel: goTo(%d) out of range [0,%d)", e.Index, n))
		}
		s.Index = e.Index
	}
	return s
}
