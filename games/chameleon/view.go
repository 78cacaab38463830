/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"maps"
	"slices"
)

// Role tells a client which fields of a View it can rely on.
type Role string

const (
	// RoleImpostor views never carry the secret word before the round ends.
	RoleImpostor Role = "impostor"
	RoleCrew     Role = "crew"

	// RoleSpectator views carry the crew's information and nothing tied to
	// a seat.
	RoleSpectator Role = "spectator"
)

// VoteView is the part of the accusation round a viewer may see.
type VoteView struct {
	Visibility VoteVisibility        `json:"visibility"`
	Counts     map[PlayerID]int      `json:"counts,omitempty"`
	Votes      map[PlayerID]PlayerID `json:"votes,omitempty"`
}

// View is one viewer's projection of a State.
type View struct {
	Role     Role     `json:"role"`
	Viewer   PlayerID `json:"viewer,omitempty"`
	Settings Settings `json:"settings"`

	Phase         Phase      `json:"phase"`
	RoundNumber   int        `json:"round_number"`
	PlayOrder     []PlayerID `json:"play_order"`
	CurrentPlayer PlayerID   `json:"current_player,omitempty"`
	Stage         Stage      `json:"stage,omitempty"`
	LegalMoves    []MoveName `json:"legal_moves"`

	StartingPlayer PlayerID            `json:"starting_player"`
	BoardTitle     string              `json:"board_title"`
	Words          []string            `json:"words"`
	Clues          map[PlayerID]string `json:"clues"`

	// SecretIndex is nil for the impostor until the round has ended.
	SecretIndex *int `json:"secret_index"`

	// Impostor is nil until the impostor is revealed to this viewer.
	Impostor *Impostor `json:"impostor"`

	Votes   VoteView `json:"votes"`
	OwnVote PlayerID `json:"own_vote,omitempty"`

	ImpostorGuess       *int              `json:"impostor_guess"`
	Outcome             Outcome           `json:"outcome"`
	SinglePlayerDecider PlayerID          `json:"single_player_decider,omitempty"`
	ReadyForNextRound   map[PlayerID]bool `json:"ready_for_next_round"`
}

// Project returns what viewer may see of st. A nil viewer is a spectator.
// Project does not modify st and the returned View shares no memory with
// it.
func Project(st State, viewer *PlayerID) View {
	r := &st.Round

	role := RoleSpectator
	var id PlayerID
	if viewer != nil && st.IsSeated(*viewer) {
		id = *viewer
		role = RoleCrew
		if r.Impostor.Is(id) {
			role = RoleImpostor
		}
	}

	v := View{
		Role:     role,
		Viewer:   id,
		Settings: st.Settings,

		Phase:         st.Turn.Phase,
		RoundNumber:   st.RoundNumber,
		PlayOrder:     slices.Clone(st.Turn.PlayOrder),
		CurrentPlayer: st.Turn.CurrentPlayer(),
		Stage:         st.Turn.StageOf(id),
		LegalMoves:    LegalMoves(st, id),

		StartingPlayer: r.StartingPlayer,
		BoardTitle:     r.BoardTitle,
		Words:          slices.Clone(r.Words),
		Clues:          maps.Clone(r.Clues),

		Votes:   projectVotes(st),
		OwnVote: r.Votes[id],

		Outcome:             r.Outcome,
		SinglePlayerDecider: r.SinglePlayerDecider,
		ReadyForNextRound:   maps.Clone(r.ReadyForNextRound),
	}

	if v.LegalMoves == nil {
		v.LegalMoves = []MoveName{}
	}

	ended := st.Turn.Phase == PhaseGameEnded

	if role != RoleImpostor || ended {
		secret := r.SecretIndex
		v.SecretIndex = &secret
	}

	if role == RoleImpostor || ended || st.Turn.Phase == PhaseImpostorGuess {
		impostor := r.Impostor
		v.Impostor = &impostor
	}

	if r.ImpostorGuess != nil {
		guess := *r.ImpostorGuess
		v.ImpostorGuess = &guess
	}

	return v
}

func projectVotes(st State) VoteView {
	vv := VoteView{Visibility: st.Settings.VoteVisibility}

	switch st.Settings.VoteVisibility {
	case VisibilityFull:
		vv.Votes = maps.Clone(st.Round.Votes)
	case VisibilityCountOnly:
		vv.Counts = CountVotes(st.Turn.PlayOrder, st.Round.Votes)
	default:
		vv.Visibility = VisibilityNone
	}

	return vv
}
