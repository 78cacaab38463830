/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type MoveName string

const (
	MoveSubmitClue             MoveName = "submitClue"
	MoveCastAccusation         MoveName = "castAccusation"
	MoveCastEveryoneIsImpostor MoveName = "castEveryoneIsImpostor"
	MoveSubmitImpostorGuess    MoveName = "submitImpostorGuess"
	MoveCastReadyForNextRound  MoveName = "castReadyForNextRound"
)

// Move is a player intent. Only the fields its Name uses are read.
type Move struct {
	Name      MoveName `json:"name"`
	Word      string   `json:"word,omitempty"`
	Accused   PlayerID `json:"accused,omitempty"`
	WordIndex *int     `json:"word_index,omitempty"`
}

func SubmitClue(word string) Move {
	return Move{Name: MoveSubmitClue, Word: word}
}

func CastAccusation(accused PlayerID) Move {
	return Move{Name: MoveCastAccusation, Accused: accused}
}

func CastEveryoneIsImpostor() Move {
	return Move{Name: MoveCastEveryoneIsImpostor}
}

func SubmitImpostorGuess(wordIndex int) Move {
	return Move{Name: MoveSubmitImpostorGuess, WordIndex: &wordIndex}
}

func CastReadyForNextRound() Move {
	return Move{Name: MoveCastReadyForNextRound}
}

type moveContext struct {
	engine *Engine
	state  *State
	actor  PlayerID
	events events
}

type moveHandler func(mc *moveContext, m Move) error

// Apply validates move for actor against st and returns the resulting
// state. On error the returned state is st, unchanged.
func (e *Engine) Apply(st State, actor PlayerID, move Move) (State, error) {
	def, ok := phases[st.Turn.Phase]
	if !ok {
		return st, fmt.Errorf("%w: unknown phase %q", ErrIllegalMove, st.Turn.Phase)
	}
	if !st.IsSeated(actor) {
		return st, fmt.Errorf("%w: %q is not seated", ErrIllegalMove, actor)
	}
	handler, ok := def.moves[move.Name]
	if !ok {
		return st, fmt.Errorf("%w: %s is not allowed in %s", ErrIllegalMove, move.Name, st.Turn.Phase)
	}
	if !moveEnabled(st.Settings, move.Name) {
		return st, fmt.Errorf("%w: %s is disabled for this match", ErrIllegalMove, move.Name)
	}
	// A repeated one-shot action is reported as such even when the turn
	// has already moved on.
	if alreadyActed(&st.Round, actor, move.Name) {
		return st, fmt.Errorf("%w: %q already made %s this round", ErrAlreadyActed, actor, move.Name)
	}
	if !st.Turn.IsActive(actor) {
		return st, fmt.Errorf("%w: %q may not act now", ErrIllegalMove, actor)
	}

	next := st.Clone()
	mc := &moveContext{
		engine: e,
		state:  &next,
		actor:  actor,
	}
	if err := handler(mc, move); err != nil {
		e.logger.Debug("move rejected",
			zap.String("player", string(actor)),
			zap.String("move", string(move.Name)),
			zap.Error(err),
		)
		return st, err
	}

	e.process(&next, def, &mc.events)

	return next, nil
}

func moveEnabled(s Settings, name MoveName) bool {
	return name != MoveCastEveryoneIsImpostor || s.EveryoneCanBeImpostor
}

func alreadyActed(r *Round, id PlayerID, name MoveName) bool {
	switch name {
	case MoveSubmitClue:
		return r.Clues[id] != ""
	case MoveCastAccusation, MoveCastEveryoneIsImpostor:
		return r.Votes[id] != ""
	case MoveSubmitImpostorGuess:
		return r.ImpostorGuess != nil
	case MoveCastReadyForNextRound:
		return r.ReadyForNextRound[id]
	}
	return false
}

// decide records the round outcome. It is only reachable once per round
// because every caller leaves the deciding phase.
func (mc *moveContext) decide(o Outcome) {
	r := &mc.state.Round
	if r.Outcome.Decided() {
		panic(fmt.Sprintf("chameleon: outcome already %s, cannot set %s", r.Outcome, o))
	}
	r.Outcome = o

	mc.engine.logger.Info("round decided",
		zap.Int("round", mc.state.RoundNumber),
		zap.String("outcome", string(o)),
		zap.String("board", r.BoardTitle),
	)
	mc.events.SetPhase(PhaseGameEnded)
}

func submitClue(mc *moveContext, m Move) error {
	r := &mc.state.Round
	word := strings.TrimSpace(m.Word)
	if word == "" {
		return fmt.Errorf("%w: clue is empty", ErrInvalidPayload)
	}

	r.Clues[mc.actor] = word
	mc.events.EndTurn()

	return nil
}

func castAccusation(mc *moveContext, m Move) error {
	r := &mc.state.Round
	if !mc.state.IsSeated(m.Accused) {
		return fmt.Errorf("%w: %q is not seated", ErrInvalidPayload, m.Accused)
	}

	r.Votes[mc.actor] = m.Accused

	if !r.allVoted() {
		return nil
	}

	impostor, single := r.Impostor.Player()
	if !single {
		mc.decide(OutcomeEveryoneLost)
		return nil
	}

	leaders := MostVoted(mc.state.Turn.PlayOrder, r.Votes)
	if len(leaders) != 1 || leaders[0] != impostor {
		mc.decide(OutcomeImpostorWonWrongAccusation)
		return nil
	}

	mc.events.SetPhase(PhaseImpostorGuess)

	return nil
}

func castEveryoneIsImpostor(mc *moveContext, _ Move) error {
	st := mc.state
	st.Round.SinglePlayerDecider = mc.actor
	if st.Round.Impostor.IsEveryone() {
		mc.decide(OutcomeSinglePlayerWon)
	} else {
		mc.decide(OutcomeSinglePlayerLost)
	}

	return nil
}

func submitImpostorGuess(mc *moveContext, m Move) error {
	r := &mc.state.Round
	if !r.Impostor.Is(mc.actor) {
		return fmt.Errorf("%w: only the impostor may guess", ErrIllegalMove)
	}
	if m.WordIndex == nil {
		return fmt.Errorf("%w: missing word index", ErrInvalidPayload)
	}
	idx := *m.WordIndex
	if idx < 0 || idx >= len(r.Words) {
		return fmt.Errorf("%w: word index %d outside board of %d", ErrInvalidPayload, idx, len(r.Words))
	}

	r.ImpostorGuess = &idx
	if idx == r.SecretIndex {
		mc.decide(OutcomeImpostorWonCorrectGuess)
	} else {
		mc.decide(OutcomeCrewWon)
	}

	return nil
}

func castReadyForNextRound(mc *moveContext, _ Move) error {
	r := &mc.state.Round
	r.ReadyForNextRound[mc.actor] = true
	if !r.allReady() {
		return nil
	}

	mc.engine.startNextRound(mc.state)
	mc.events.SetPhase(PhaseSelectWord)

	return nil
}
