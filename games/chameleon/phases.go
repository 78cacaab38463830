/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"slices"

	"go.uber.org/zap"
)

// orderFunc picks a play-order position. ok is false when the phase has no
// further turns.
type orderFunc func(r *Round, t *Turn) (pos int, ok bool)

type turnOrder struct {
	first orderFunc
	next  orderFunc
}

type activePolicy int

const (
	activeCurrent activePolicy = iota
	activeAll
)

type phaseDef struct {
	order  turnOrder
	active activePolicy
	stage  Stage
	moves  map[MoveName]moveHandler
	endIf  func(r *Round) bool
	then   Phase
}

var phases = map[Phase]*phaseDef{
	PhaseSelectWord: {
		order: turnOrder{
			first: startingPlayerFirst,
			next:  roundRobin,
		},
		active: activeCurrent,
		moves: map[MoveName]moveHandler{
			MoveSubmitClue: submitClue,
		},
		endIf: (*Round).allCluesGiven,
		then:  PhaseDiscussAndVote,
	},
	PhaseDiscussAndVote: {
		active: activeAll,
		stage:  StageVoting,
		moves: map[MoveName]moveHandler{
			MoveCastAccusation:         castAccusation,
			MoveCastEveryoneIsImpostor: castEveryoneIsImpostor,
		},
		then: PhaseGameEnded,
	},
	PhaseImpostorGuess: {
		order: turnOrder{
			first: impostorOnly,
			next:  phaseComplete,
		},
		active: activeCurrent,
		stage:  StageImpostorGuess,
		moves: map[MoveName]moveHandler{
			MoveSubmitImpostorGuess: submitImpostorGuess,
		},
		then: PhaseGameEnded,
	},
	PhaseGameEnded: {
		active: activeAll,
		stage:  StageReady,
		moves: map[MoveName]moveHandler{
			MoveCastReadyForNextRound: castReadyForNextRound,
		},
		then: PhaseSelectWord,
	},
}

func startingPlayerFirst(r *Round, t *Turn) (int, bool) {
	i := slices.Index(t.PlayOrder, r.StartingPlayer)
	return i, i >= 0
}

func roundRobin(_ *Round, t *Turn) (int, bool) {
	if t.NumPlayers() == 0 {
		return 0, false
	}
	return (t.PlayOrderPos + 1) % t.NumPlayers(), true
}

func impostorOnly(r *Round, t *Turn) (int, bool) {
	id, ok := r.Impostor.Player()
	if !ok {
		return 0, false
	}
	i := slices.Index(t.PlayOrder, id)
	return i, i >= 0
}

func phaseComplete(*Round, *Turn) (int, bool) {
	return 0, false
}

// events collects the transitions a move handler asks for. They are
// applied after the handler returns.
type events struct {
	endTurn  bool
	setPhase Phase
}

func (ev *events) EndTurn() {
	ev.endTurn = true
}

func (ev *events) SetPhase(p Phase) {
	ev.setPhase = p
}

// process applies the handler's events, then the phase's end condition,
// then the turn order.
func (e *Engine) process(st *State, def *phaseDef, ev *events) {
	switch {
	case ev.setPhase != "":
		e.enterPhase(st, ev.setPhase)
	case def.endIf != nil && def.endIf(&st.Round):
		e.enterPhase(st, def.then)
	case ev.endTurn && def.order.next != nil:
		pos, ok := def.order.next(&st.Round, &st.Turn)
		if !ok {
			e.enterPhase(st, def.then)
			return
		}
		st.Turn.PlayOrderPos = pos
		activate(st, def)
	}
}

func (e *Engine) enterPhase(st *State, p Phase) {
	def := phases[p]
	from := st.Turn.Phase

	st.Turn.Phase = p
	if def.order.first != nil {
		if pos, ok := def.order.first(&st.Round, &st.Turn); ok {
			st.Turn.PlayOrderPos = pos
		}
	}
	activate(st, def)

	e.logger.Debug("phase changed",
		zap.Int("round", st.RoundNumber),
		zap.Stringer("from", from),
		zap.Stringer("to", p),
		zap.String("current_player", string(st.Turn.CurrentPlayer())),
	)
}

func activate(st *State, def *phaseDef) {
	switch def.active {
	case activeAll:
		st.Turn.ActivePlayers = playerMap(st.Turn.PlayOrder, def.stage)
	default:
		if def.stage == StageNone {
			st.Turn.ActivePlayers = nil
			return
		}
		st.Turn.ActivePlayers = map[PlayerID]Stage{st.Turn.CurrentPlayer(): def.stage}
	}
}

// LegalMoves lists the moves id may make right now.
func LegalMoves(st State, id PlayerID) []MoveName {
	def, ok := phases[st.Turn.Phase]
	if !ok || !st.IsSeated(id) || !st.Turn.IsActive(id) {
		return nil
	}

	moves := make([]MoveName, 0, len(def.moves))
	for name := range def.moves {
		if !moveEnabled(st.Settings, name) || alreadyActed(&st.Round, id, name) {
			continue
		}
		moves = append(moves, name)
	}
	slices.Sort(moves)

	return moves
}
