package chameleon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWordIsRoundRobin(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C", "D"), "C", 2, DefaultSettings())

	for _, want := range ids("A", "B", "C", "D") {
		assert.Equal(t, want, st.Turn.CurrentPlayer())
		assert.Equal(t, PhaseSelectWord, st.Turn.Phase)
		st = mustApply(t, e, st, want, SubmitClue("  hint "+string(want)+" "))
	}

	assert.Equal(t, PhaseDiscussAndVote, st.Turn.Phase)
	assert.Equal(t, "hint A", st.Round.Clues["A"])
	for _, p := range st.Turn.PlayOrder {
		assert.Equal(t, StageVoting, st.Turn.StageOf(p))
	}
}

func TestSelectWordRejections(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 0, DefaultSettings())

	_, err := e.Apply(st, "B", SubmitClue("early"))
	assert.ErrorIs(t, err, ErrIllegalMove, "not B's turn")

	_, err = e.Apply(st, "X", SubmitClue("stranger"))
	assert.ErrorIs(t, err, ErrIllegalMove, "not seated")

	_, err = e.Apply(st, "A", CastAccusation("B"))
	assert.ErrorIs(t, err, ErrIllegalMove, "wrong phase")

	_, err = e.Apply(st, "A", Move{Name: "dance"})
	assert.ErrorIs(t, err, ErrIllegalMove, "unknown move")

	_, err = e.Apply(st, "A", SubmitClue("   "))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	st = mustApply(t, e, st, "A", SubmitClue("one"))
	before := st.Clone()
	got, err := e.Apply(st, "A", SubmitClue("two"))
	require.ErrorIs(t, err, ErrAlreadyActed, "second clue after the turn passed")
	assert.Equal(t, "already_acted", ErrorKind(err))
	assert.Equal(t, before, got)
	assert.Equal(t, "one", got.Round.Clues["A"])
	assert.Equal(t, PlayerID("B"), got.Turn.CurrentPlayer())
}

func TestAlreadyActedLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 0, DefaultSettings())
	st = giveClues(t, e, st)
	st = accuse(t, e, st, "A", "B")

	before := st.Clone()
	got, err := e.Apply(st, "A", CastAccusation("C"))

	require.ErrorIs(t, err, ErrAlreadyActed)
	assert.Equal(t, before, got)
	assert.Equal(t, before, st)
	assert.Equal(t, PlayerID("B"), got.Round.Votes["A"])
}

func TestDiscussAndVote(t *testing.T) {
	t.Parallel()

	t.Run("plurality on wrong player", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "B", 5, DefaultSettings())
		st = giveClues(t, e, st)
		st = accuse(t, e, st, "A", "B", "B", "A", "C", "A")

		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
		assert.Equal(t, OutcomeImpostorWonWrongAccusation, st.Round.Outcome)
	})

	t.Run("plurality on impostor", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "A", 5, DefaultSettings())
		st = giveClues(t, e, st)
		st = accuse(t, e, st, "A", "B", "B", "A", "C", "A")

		assert.Equal(t, PhaseImpostorGuess, st.Turn.Phase)
		assert.Equal(t, OutcomeUndecided, st.Round.Outcome)
		assert.Equal(t, PlayerID("A"), st.Turn.CurrentPlayer())
		assert.Equal(t, map[PlayerID]Stage{"A": StageImpostorGuess}, st.Turn.ActivePlayers)
	})

	t.Run("exact tie always favours the impostor", func(t *testing.T) {
		for _, impostor := range ids("A", "B", "C", "D") {
			e, st := newTestGame(t, ids("A", "B", "C", "D"), impostor, 1, DefaultSettings())
			st = giveClues(t, e, st)
			st = accuse(t, e, st, "A", "B", "B", "A", "C", "A", "D", "B")

			assert.Equal(t, OutcomeImpostorWonWrongAccusation, st.Round.Outcome, "impostor %s", impostor)
			assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
		}
	})

	t.Run("votes resolve only when everyone voted", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "C", 1, DefaultSettings())
		st = giveClues(t, e, st)
		st = accuse(t, e, st, "B", "C", "A", "C")

		assert.Equal(t, PhaseDiscussAndVote, st.Turn.Phase)
		assert.True(t, st.Turn.IsActive("C"))
	})

	t.Run("accusing an unseated player", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "C", 1, DefaultSettings())
		st = giveClues(t, e, st)

		_, err := e.Apply(st, "A", CastAccusation("Z"))
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = e.Apply(st, "A", CastAccusation(""))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("special action disabled", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "C", 1, DefaultSettings())
		st = giveClues(t, e, st)

		got, err := e.Apply(st, "A", CastEveryoneIsImpostor())
		assert.ErrorIs(t, err, ErrIllegalMove)
		assert.Equal(t, st, got)

		st = accuse(t, e, st, "A", "B")
		_, err = e.Apply(st, "A", CastEveryoneIsImpostor())
		assert.ErrorIs(t, err, ErrIllegalMove, "disabled wins over already voted")
	})
}

func everyoneSettings() Settings {
	return Settings{
		EveryoneCanBeImpostor:  true,
		EveryoneImpostorChance: 0.5,
		VoteVisibility:         VisibilityFull,
	}
}

func TestEveryoneIsImpostor(t *testing.T) {
	t.Parallel()

	newEveryoneGame := func(t *testing.T) (*Engine, State) {
		t.Helper()
		e := New(WithCatalog(testCatalog()), WithRand(&scriptedRand{floats: []float64{0.2}}))
		st, err := e.Setup(ids("A", "B", "C"), everyoneSettings())
		require.NoError(t, err)
		require.True(t, st.Round.Impostor.IsEveryone())
		return e, giveClues(t, e, st)
	}

	t.Run("caller wins when nobody is bluffing", func(t *testing.T) {
		e, st := newEveryoneGame(t)
		st = mustApply(t, e, st, "B", CastEveryoneIsImpostor())

		assert.Equal(t, OutcomeSinglePlayerWon, st.Round.Outcome)
		assert.Equal(t, PlayerID("B"), st.Round.SinglePlayerDecider)
		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
	})

	t.Run("caller loses when there is an impostor", func(t *testing.T) {
		e, st := newTestGame(t, ids("A", "B", "C"), "A", 0, Settings{
			EveryoneCanBeImpostor:  true,
			EveryoneImpostorChance: 0,
			VoteVisibility:         VisibilityNone,
		})
		st = giveClues(t, e, st)
		st = mustApply(t, e, st, "C", CastEveryoneIsImpostor())

		assert.Equal(t, OutcomeSinglePlayerLost, st.Round.Outcome)
		assert.Equal(t, PlayerID("C"), st.Round.SinglePlayerDecider)
		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
	})

	t.Run("nobody calls it out", func(t *testing.T) {
		e, st := newEveryoneGame(t)
		st = accuse(t, e, st, "A", "B", "B", "C", "C", "B")

		assert.Equal(t, OutcomeEveryoneLost, st.Round.Outcome)
		assert.Empty(t, st.Round.SinglePlayerDecider)
		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
	})

	t.Run("voters cannot call it afterwards", func(t *testing.T) {
		e, st := newEveryoneGame(t)
		st = accuse(t, e, st, "A", "B")

		_, err := e.Apply(st, "A", CastEveryoneIsImpostor())
		assert.ErrorIs(t, err, ErrAlreadyActed)
	})
}

func TestImpostorGuess(t *testing.T) {
	t.Parallel()

	unmasked := func(t *testing.T) (*Engine, State) {
		t.Helper()
		e, st := newTestGame(t, ids("A", "B", "C"), "A", 5, DefaultSettings())
		st = giveClues(t, e, st)
		st = accuse(t, e, st, "A", "B", "B", "A", "C", "A")
		require.Equal(t, PhaseImpostorGuess, st.Turn.Phase)
		return e, st
	}

	t.Run("correct guess", func(t *testing.T) {
		e, st := unmasked(t)
		st = mustApply(t, e, st, "A", SubmitImpostorGuess(5))

		assert.Equal(t, OutcomeImpostorWonCorrectGuess, st.Round.Outcome)
		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
		require.NotNil(t, st.Round.ImpostorGuess)
		assert.Equal(t, 5, *st.Round.ImpostorGuess)
	})

	t.Run("wrong guess", func(t *testing.T) {
		e, st := unmasked(t)
		st = mustApply(t, e, st, "A", SubmitImpostorGuess(2))

		assert.Equal(t, OutcomeCrewWon, st.Round.Outcome)
		assert.Equal(t, PhaseGameEnded, st.Turn.Phase)
	})

	t.Run("crew may not guess", func(t *testing.T) {
		e, st := unmasked(t)
		_, err := e.Apply(st, "B", SubmitImpostorGuess(5))
		assert.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("index out of range", func(t *testing.T) {
		e, st := unmasked(t)

		_, err := e.Apply(st, "A", SubmitImpostorGuess(16))
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = e.Apply(st, "A", SubmitImpostorGuess(-1))
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = e.Apply(st, "A", Move{Name: MoveSubmitImpostorGuess})
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestSecretAndImpostorAreStableWithinRound(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C", "D"), "D", 9, DefaultSettings())
	secret, impostor := st.Round.SecretIndex, st.Round.Impostor

	check := func(st State) {
		t.Helper()
		assert.Equal(t, secret, st.Round.SecretIndex)
		assert.Equal(t, impostor, st.Round.Impostor)
	}

	for range 4 {
		st = mustApply(t, e, st, st.Turn.CurrentPlayer(), SubmitClue("x"))
		check(st)
	}
	for _, pair := range [][2]PlayerID{{"A", "D"}, {"B", "D"}, {"C", "D"}, {"D", "A"}} {
		st = mustApply(t, e, st, pair[0], CastAccusation(pair[1]))
		check(st)
	}
	st = mustApply(t, e, st, "D", SubmitImpostorGuess(0))
	check(st)
	assert.Equal(t, OutcomeCrewWon, st.Round.Outcome)
}

func TestGameEndedReadyVotes(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 5, DefaultSettings())
	st = giveClues(t, e, st)
	st = accuse(t, e, st, "A", "C", "B", "C", "C", "A")
	require.Equal(t, PhaseGameEnded, st.Turn.Phase)

	_, err := e.Apply(st, "A", SubmitClue("late"))
	assert.ErrorIs(t, err, ErrIllegalMove)

	st = mustApply(t, e, st, "A", CastReadyForNextRound())
	assert.True(t, st.Round.ReadyForNextRound["A"])
	assert.Equal(t, PhaseGameEnded, st.Turn.Phase)

	_, err = e.Apply(st, "A", CastReadyForNextRound())
	assert.ErrorIs(t, err, ErrAlreadyActed)
}

func TestFullRoundTrip(t *testing.T) {
	t.Parallel()

	players := ids("A", "B", "C", "D")
	rng := &scriptedRand{
		ints: []int{0, 7, 2, 0, 3, 1},
	}
	e := New(WithCatalog(testCatalog()), WithRand(rng))

	st, err := e.Setup(players, DefaultSettings())
	require.NoError(t, err)
	require.True(t, st.Round.Impostor.Is("C"))
	require.Equal(t, PlayerID("A"), st.Round.StartingPlayer)

	st = giveClues(t, e, st)
	st = accuse(t, e, st, "A", "C", "B", "C", "C", "A", "D", "C")
	require.Equal(t, PhaseImpostorGuess, st.Turn.Phase)

	st = mustApply(t, e, st, "C", SubmitImpostorGuess(7))
	require.Equal(t, OutcomeImpostorWonCorrectGuess, st.Round.Outcome)
	require.Equal(t, PhaseGameEnded, st.Turn.Phase)

	for _, p := range players {
		st = mustApply(t, e, st, p, CastReadyForNextRound())
	}

	assert.Equal(t, PhaseSelectWord, st.Turn.Phase)
	assert.Equal(t, 2, st.RoundNumber)
	assert.Equal(t, OutcomeUndecided, st.Round.Outcome)
	assert.Equal(t, PlayerID("B"), st.Round.StartingPlayer)
	assert.Equal(t, PlayerID("B"), st.Turn.CurrentPlayer())
	assert.Nil(t, st.Turn.ActivePlayers)
	assert.Equal(t, 3, st.Round.SecretIndex)
	assert.True(t, st.Round.Impostor.Is("B"))
	assert.Nil(t, st.Round.ImpostorGuess)
	for _, p := range players {
		assert.Empty(t, st.Round.Clues[p])
		assert.Empty(t, st.Round.Votes[p])
		assert.False(t, st.Round.ReadyForNextRound[p])
	}

	// The second round opens with B and wraps around to A.
	for _, want := range ids("B", "C", "D", "A") {
		require.Equal(t, want, st.Turn.CurrentPlayer())
		st = mustApply(t, e, st, want, SubmitClue("again"))
	}
	assert.Equal(t, PhaseDiscussAndVote, st.Turn.Phase)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 0, DefaultSettings())
	before := st.Clone()

	next := mustApply(t, e, st, "A", SubmitClue("fresh"))

	assert.Equal(t, before, st)
	assert.Equal(t, "fresh", next.Round.Clues["A"])
	assert.Empty(t, st.Round.Clues["A"])
}

func TestLegalMoves(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 0, everyoneSettingsNoDraw())

	assert.Equal(t, []MoveName{MoveSubmitClue}, LegalMoves(st, "A"))
	assert.Empty(t, LegalMoves(st, "B"))
	assert.Empty(t, LegalMoves(st, "nobody"))

	st = giveClues(t, e, st)
	assert.Equal(t, []MoveName{MoveCastAccusation, MoveCastEveryoneIsImpostor}, LegalMoves(st, "C"))

	st = accuse(t, e, st, "C", "B")
	assert.Empty(t, LegalMoves(st, "C"))
}

// everyoneSettingsNoDraw enables the special action but never deals an
// everyone round.
func everyoneSettingsNoDraw() Settings {
	s := everyoneSettings()
	s.EveryoneImpostorChance = 0
	return s
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	e, st := newTestGame(t, ids("A", "B", "C"), "B", 0, DefaultSettings())

	_, err := e.Apply(st, "B", SubmitClue("x"))
	assert.Equal(t, "illegal_move", ErrorKind(err))

	_, err = e.Apply(st, "A", SubmitClue(""))
	assert.Equal(t, "invalid_payload", ErrorKind(err))

	assert.Equal(t, "already_acted", ErrorKind(ErrAlreadyActed))
	assert.Empty(t, ErrorKind(nil))
}
