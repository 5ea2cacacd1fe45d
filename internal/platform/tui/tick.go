// Package tui provides the Bubble Tea integration for the snake game.
// It handles the terminal UI loop, input mapping, and session timers.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// timerFiredMsg is sent when a session timer is due.
type timerFiredMsg struct {
	id uint64
}

// cmdScheduler implements session.Scheduler on top of tea.Tick, so timer
// callbacks run inside Update like every other message. Timers scheduled
// during an Update are returned as commands by Cmd.
type cmdScheduler struct {
	next    uint64
	funcs   map[uint64]func()
	pending []tea.Cmd
}

func newCmdScheduler() *cmdScheduler {
	return &cmdScheduler{funcs: make(map[uint64]func())}
}

// AfterFunc registers f and queues a tick command for it.
func (s *cmdScheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	s.next++
	id := s.next
	s.funcs[id] = f
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return cmdTimer{sched: s, id: id}
}

// fire runs the callback for id. Stopped timers still deliver their
// message; it is dropped here.
func (s *cmdScheduler) fire(id uint64) bool {
	f, ok := s.funcs[id]
	if !ok {
		return false
	}
	delete(s.funcs, id)
	f()
	return true
}

// Cmd drains the commands queued since the last call.
func (s *cmdScheduler) Cmd() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Len returns the number of live timers.
func (s *cmdScheduler) Len() int {
	return len(s.funcs)
}

type cmdTimer struct {
	sched *cmdScheduler
	id    uint64
}

func (t cmdTimer) Stop() bool {
	if _, ok := t.sched.funcs[t.id]; !ok {
		return false
	}
	delete(t.sched.funcs, t.id)
	return true
}
