/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package chameleon implements the rules of the Chameleon word game: one
// seated player does not know the secret word and has to bluff through a
// round of clues and a round of accusations.
//
// The package is pure. An Engine turns a State and a player's Move into a
// new State, and Project derives what a given viewer is allowed to see.
// Storing the State and moving it between clients is the caller's job;
// Match is a small helper for holding one State safely.
package chameleon

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"
)

const (
	MinPlayers = 3
	MaxPlayers = 20
)

// Rand is the randomness an Engine needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type Engine struct {
	catalog Catalog
	rng     Rand
	logger  *zap.Logger
}

type Option func(*Engine)

func WithCatalog(c Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithRand replaces the default source. A *rand.Rand is not safe for
// concurrent use, so an Engine built with one must not be shared between
// goroutines.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		rng:    globalRand{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = DefaultCatalog()
	}
	return e
}

// Setup seats players in the given order and deals the first round.
func (e *Engine) Setup(players []PlayerID, settings Settings) (State, error) {
	if err := validatePlayers(players); err != nil {
		return State{}, err
	}
	if err := settings.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	if err := e.catalog.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}

	order := slices.Clone(players)

	st := State{
		Settings:    settings,
		Round:       e.newRound(order, settings, order[0]),
		Turn:        Turn{PlayOrder: order},
		RoundNumber: 1,
	}
	e.enterPhase(&st, PhaseSelectWord)

	e.logger.Debug("match set up",
		zap.Int("players", len(order)),
		zap.Bool("everyone_can_be_impostor", settings.EveryoneCanBeImpostor),
		zap.Stringer("vote_visibility", settings.VoteVisibility),
	)

	return st, nil
}

func validatePlayers(players []PlayerID) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return fmt.Errorf("%w: need %d-%d players, got %d", ErrInvalidSetup, MinPlayers, MaxPlayers, len(players))
	}
	seen := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("%w: empty player id", ErrInvalidSetup)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidSetup, p)
		}
		seen[p] = true
	}
	return nil
}

// newRound deals a fresh round: board, secret word and impostor.
func (e *Engine) newRound(order []PlayerID, settings Settings, starting PlayerID) Round {
	board := e.catalog[e.rng.IntN(len(e.catalog))]

	r := Round{
		StartingPlayer:    starting,
		BoardTitle:        board.Title,
		Words:             slices.Clone(board.Words),
		SecretIndex:       e.rng.IntN(len(board.Words)),
		Clues:             playerMap(order, ""),
		Impostor:          e.drawImpostor(order, settings),
		Votes:             playerMap(order, PlayerID("")),
		Outcome:           OutcomeUndecided,
		ReadyForNextRound: playerMap(order, false),
	}

	return r
}

func (e *Engine) drawImpostor(order []PlayerID, settings Settings) Impostor {
	if settings.EveryoneCanBeImpostor && e.rng.Float64() < settings.EveryoneImpostorChance {
		return PotentialEveryone()
	}
	return SingleImpostor(order[e.rng.IntN(len(order))])
}

// startNextRound replaces the finished round in place. The seat after the
// previous starting player opens the new round.
func (e *Engine) startNextRound(st *State) {
	starting := nextStartingPlayer(st.Turn.PlayOrder, st.Round.StartingPlayer)

	st.Round = e.newRound(st.Turn.PlayOrder, st.Settings, starting)
	st.RoundNumber++

	e.logger.Debug("new round dealt",
		zap.Int("round", st.RoundNumber),
		zap.String("starting_player", string(starting)),
	)
}

func nextStartingPlayer(order []PlayerID, previous PlayerID) PlayerID {
	i := slices.Index(order, previous)
	if i < 0 {
		return order[0]
	}
	return order[(i+1)%len(order)]
}

func playerMap[T any](order []PlayerID, zero T) map[PlayerID]T {
	m := make(map[PlayerID]T, len(order))
	for _, p := range order {
		m[p] = zero
	}
	return m
}
