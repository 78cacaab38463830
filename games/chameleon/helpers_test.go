package chameleon

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRand hands out queued values in order and zero once empty.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func testCatalog() Catalog {
	words := make([]string, 16)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return Catalog{{Title: "Test", Words: words}}
}

func ids(names ...string) []PlayerID {
	out := make([]PlayerID, len(names))
	for i, n := range names {
		out[i] = PlayerID(n)
	}
	return out
}

// newTestGame deals a round with a known impostor and secret word.
func newTestGame(t *testing.T, players []PlayerID, impostor PlayerID, secret int, settings Settings) (*Engine, State) {
	t.Helper()

	rng := &scriptedRand{
		ints: []int{0, secret, slices.Index(players, impostor)},
	}
	e := New(WithCatalog(testCatalog()), WithRand(rng))

	st, err := e.Setup(players, settings)
	require.NoError(t, err)
	require.True(t, st.Round.Impostor.Is(impostor))
	require.Equal(t, secret, st.Round.SecretIndex)

	return e, st
}

func mustApply(t *testing.T, e *Engine, st State, actor PlayerID, move Move) State {
	t.Helper()

	next, err := e.Apply(st, actor, move)
	require.NoError(t, err, "%s by %s in %s", move.Name, actor, st.Turn.Phase)

	return next
}

// giveClues lets every seated player give a clue in turn order.
func giveClues(t *testing.T, e *Engine, st State) State {
	t.Helper()

	for range st.Turn.NumPlayers() {
		require.Equal(t, PhaseSelectWord, st.Turn.Phase)
		current := st.Turn.CurrentPlayer()
		st = mustApply(t, e, st, current, SubmitClue("clue-"+string(current)))
	}
	require.Equal(t, PhaseDiscussAndVote, st.Turn.Phase)

	return st
}

// accuse casts votes in the order given by the voter→accused pairs.
func accuse(t *testing.T, e *Engine, st State, pairs ...string) State {
	t.Helper()
	require.Zero(t, len(pairs)%2)

	for i := 0; i < len(pairs); i += 2 {
		st = mustApply(t, e, st, PlayerID(pairs[i]), CastAccusation(PlayerID(pairs[i+1])))
	}

	return st
}
