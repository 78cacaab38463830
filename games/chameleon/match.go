/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"sync"
)

// Match holds the one authoritative State of a match. Moves are applied
// one at a time and the resulting state replaces the old one in a single
// step, so readers never observe a half-applied move or round reset.
type Match struct {
	engine *Engine

	mu    sync.RWMutex
	state State
}

// NewMatch seats players and deals the first round.
func NewMatch(engine *Engine, players []PlayerID, settings Settings) (*Match, error) {
	st, err := engine.Setup(players, settings)
	if err != nil {
		return nil, err
	}

	return &Match{
		engine: engine,
		state:  st,
	}, nil
}

// Apply runs move against the current state. The stored state only
// changes when the move is accepted.
func (m *Match) Apply(actor PlayerID, move Move) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.engine.Apply(m.state, actor, move)
	if err != nil {
		return m.state.Clone(), err
	}
	m.state = next

	return next.Clone(), nil
}

func (m *Match) View(viewer *PlayerID) View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Project(m.state, viewer)
}

// Snapshot returns a deep copy of the current state.
func (m *Match) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state.Clone()
}

func (m *Match) Players() []PlayerID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]PlayerID(nil), m.state.Turn.PlayOrder...)
}
