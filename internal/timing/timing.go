// Package timing computes auction windows and countdowns.
//
// All functions are pure: they take the current instant as an argument and
// never read the clock, so callers decide the cadence of re-evaluation.
package timing

import (
	"fmt"
	"time"
)

// Display sentinels
const (
	EndedText   = "Auction Ended"
	StartedText = "Auction has started"
)

// Phase of an auction relative to now
type Phase string

const (
	PhaseUnscheduled Phase = "unscheduled"
	PhaseScheduled   Phase = "scheduled"
	PhaseOngoing     Phase = "ongoing"
	PhaseEnded       Phase = "ended"
)

// End returns start + durationMinutes
func End(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// IsOngoing reports whether now lies in the closed window [start, end]
func IsOngoing(start time.Time, durationMinutes int, now time.Time) bool {
	end := End(start, durationMinutes)
	return !now.Before(start) && !now.After(end)
}

// Countdown is a whole-second breakdown of the time left until a target
type Countdown struct {
	Hours   int64
	Minutes int64
	Seconds int64
	Done    bool
}

// TotalSeconds reassembles the breakdown
func (c Countdown) TotalSeconds() int64 {
	return c.Hours*3600 + c.Minutes*60 + c.Seconds
}

func (c Countdown) String() string {
	return fmt.Sprintf("%dh %dm %ds", c.Hours, c.Minutes, c.Seconds)
}

// Remaining breaks target-now into floored hours, minutes and seconds.
// Done is set, with all components zero, once now >= target.
func Remaining(target, now time.Time) Countdown {
	if !now.Before(target) {
		return Countdown{Done: true}
	}
	total := int64(target.Sub(now) / time.Second)
	return Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// TimeRemaining formats the time left until end, or EndedText
func TimeRemaining(end, now time.Time) string {
	c := Remaining(end, now)
	if c.Done {
		return EndedText
	}
	return c.String()
}

// CountdownUntilStart formats the time left until start, or StartedText
func CountdownUntilStart(start, now time.Time) string {
	c := Remaining(start, now)
	if c.Done {
		return StartedText
	}
	return c.String()
}

// Status is the derived, never persisted, timing view of one auction
type Status struct {
	Phase               Phase  `json:"phase"`
	Ongoing             bool   `json:"auction_ongoing"`
	TimeLeft            string `json:"time_left"`
	CountdownUntilStart string `json:"countdown_until_start"`
}

// Label is the one-line status shown next to an item
func (s Status) Label() string {
	switch s.Phase {
	case PhaseScheduled:
		return "Auction starts in: " + s.CountdownUntilStart
	case PhaseOngoing:
		return "Auction ends in: " + s.TimeLeft
	case PhaseEnded:
		return EndedText
	default:
		return "No auction scheduled"
	}
}

// Evaluate derives the status of an auction at now. A zero start means the
// auction has not been scheduled.
func Evaluate(start time.Time, durationMinutes int, now time.Time) Status {
	if start.IsZero() {
		return Status{Phase: PhaseUnscheduled}
	}
	end := End(start, durationMinutes)
	s := Status{
		Ongoing:             IsOngoing(start, durationMinutes, now),
		TimeLeft:            TimeRemaining(end, now),
		CountdownUntilStart: CountdownUntilStart(start, now),
	}
	switch {
	case now.Before(start):
		s.Phase = PhaseScheduled
	case s.Ongoing:
		s.Phase = PhaseOngoing
		if now.Equal(end) {
			// the closing instant still belongs to the auction
			s.TimeLeft = Countdown{}.String()
		}
	default:
		s.Phase = PhaseEnded
	}
	return s
}
