/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"encoding/json"
	"maps"
	"slices"
)

type PlayerID string

// Phase is the name of a step in the round state machine.
type Phase string

const (
	PhaseSelectWord     Phase = "selectWord"
	PhaseDiscussAndVote Phase = "discussAndVote"
	PhaseImpostorGuess  Phase = "chameleonChoosesWord"
	PhaseGameEnded      Phase = "gameEnded"
)

func (p Phase) String() string {
	return string(p)
}

// Stage is the sub-state an active player is in during a phase.
type Stage string

const (
	StageNone          Stage = ""
	StageVoting        Stage = "votingStage"
	StageImpostorGuess Stage = "chameleonChoosesStage"
	StageReady         Stage = "votingForNewGameStage"
)

// Outcome is set exactly once per round.
type Outcome string

const (
	OutcomeUndecided                  Outcome = "undecided"
	OutcomeImpostorWonWrongAccusation Outcome = "impostor-won-wrong-accusation"
	OutcomeImpostorWonCorrectGuess    Outcome = "impostor-won-correct-guess"
	OutcomeCrewWon                    Outcome = "crew-won"
	OutcomeSinglePlayerWon            Outcome = "single-player-won"
	OutcomeSinglePlayerLost           Outcome = "single-player-lost"
	OutcomeEveryoneLost               Outcome = "everyone-lost"
)

func (o Outcome) Decided() bool {
	return o != "" && o != OutcomeUndecided
}

// Impostor is either a single seated player or the "everyone" variant, in
// which nobody is actually bluffing.
type Impostor struct {
	everyone bool
	player   PlayerID
}

func SingleImpostor(id PlayerID) Impostor {
	return Impostor{player: id}
}

func PotentialEveryone() Impostor {
	return Impostor{everyone: true}
}

func (i Impostor) IsEveryone() bool {
	return i.everyone
}

// Player returns the impostor's id, or false for the everyone variant.
func (i Impostor) Player() (PlayerID, bool) {
	if i.everyone || i.player == "" {
		return "", false
	}
	return i.player, true
}

// Is reports whether id is the single impostor.
func (i Impostor) Is(id PlayerID) bool {
	return !i.everyone && id != "" && i.player == id
}

type impostorJSON struct {
	Everyone bool     `json:"everyone"`
	Player   PlayerID `json:"player,omitempty"`
}

func (i Impostor) MarshalJSON() ([]byte, error) {
	return json.Marshal(impostorJSON{Everyone: i.everyone, Player: i.player})
}

func (i *Impostor) UnmarshalJSON(data []byte) error {
	var v impostorJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Everyone {
		*i = PotentialEveryone()
	} else {
		*i = SingleImpostor(v.Player)
	}
	return nil
}

// Round is the authoritative state of one round. Every per-player map
// holds exactly the seated players. Empty strings mark absent clues and
// votes.
type Round struct {
	StartingPlayer      PlayerID              `json:"starting_player"`
	BoardTitle          string                `json:"board_title"`
	Words               []string              `json:"words"`
	SecretIndex         int                   `json:"secret_index"`
	Clues               map[PlayerID]string   `json:"clues"`
	Impostor            Impostor              `json:"impostor"`
	Votes               map[PlayerID]PlayerID `json:"votes"`
	ImpostorGuess       *int                  `json:"impostor_guess"`
	Outcome             Outcome               `json:"outcome"`
	SinglePlayerDecider PlayerID              `json:"single_player_decider,omitempty"`
	ReadyForNextRound   map[PlayerID]bool     `json:"ready_for_next_round"`
}

func (r Round) clone() Round {
	c := r
	c.Words = slices.Clone(r.Words)
	c.Clues = maps.Clone(r.Clues)
	c.Votes = maps.Clone(r.Votes)
	c.ReadyForNextRound = maps.Clone(r.ReadyForNextRound)
	if r.ImpostorGuess != nil {
		g := *r.ImpostorGuess
		c.ImpostorGuess = &g
	}
	return c
}

func (r *Round) allCluesGiven() bool {
	for _, clue := range r.Clues {
		if clue == "" {
			return false
		}
	}
	return true
}

func (r *Round) allVoted() bool {
	for _, accused := range r.Votes {
		if accused == "" {
			return false
		}
	}
	return true
}

func (r *Round) allReady() bool {
	for _, ready := range r.ReadyForNextRound {
		if !ready {
			return false
		}
	}
	return true
}

// Turn is the turn context: who is seated in which order, whose turn it
// is, and who may act.
type Turn struct {
	Phase        Phase      `json:"phase"`
	PlayOrder    []PlayerID `json:"play_order"`
	PlayOrderPos int        `json:"play_order_pos"`

	// ActivePlayers is nil when only the current player may act.
	ActivePlayers map[PlayerID]Stage `json:"active_players,omitempty"`
}

func (t Turn) NumPlayers() int {
	return len(t.PlayOrder)
}

func (t Turn) CurrentPlayer() PlayerID {
	if t.PlayOrderPos < 0 || t.PlayOrderPos >= len(t.PlayOrder) {
		return ""
	}
	return t.PlayOrder[t.PlayOrderPos]
}

func (t Turn) IsActive(id PlayerID) bool {
	if t.ActivePlayers == nil {
		return id != "" && id == t.CurrentPlayer()
	}
	_, ok := t.ActivePlayers[id]
	return ok
}

// StageOf returns the stage id is in, or StageNone.
func (t Turn) StageOf(id PlayerID) Stage {
	if t.ActivePlayers == nil {
		return StageNone
	}
	return t.ActivePlayers[id]
}

func (t Turn) clone() Turn {
	c := t
	c.PlayOrder = slices.Clone(t.PlayOrder)
	c.ActivePlayers = maps.Clone(t.ActivePlayers)
	return c
}

// State is everything a driver needs to store for one match.
type State struct {
	Settings    Settings `json:"settings"`
	Round       Round    `json:"round"`
	Turn        Turn     `json:"turn"`
	RoundNumber int      `json:"round_number"`
}

func (s State) Clone() State {
	c := s
	c.Round = s.Round.clone()
	c.Turn = s.Turn.clone()
	return c
}

func (s State) IsSeated(id PlayerID) bool {
	return id != "" && slices.Contains(s.Turn.PlayOrder, id)
}
