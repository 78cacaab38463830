/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import "fmt"

// VoteVisibility controls how much of the accusation round other players
// can see while it is running.
type VoteVisibility string

const (
	VisibilityNone      VoteVisibility = "none"
	VisibilityCountOnly VoteVisibility = "count-only"
	VisibilityFull      VoteVisibility = "full"
)

func (v VoteVisibility) String() string {
	return string(v)
}

func (v VoteVisibility) valid() bool {
	switch v {
	case VisibilityNone, VisibilityCountOnly, VisibilityFull:
		return true
	}
	return false
}

// ParseVoteVisibility accepts the flag spellings of a VoteVisibility.
func ParseVoteVisibility(s string) (VoteVisibility, error) {
	v := VoteVisibility(s)
	if !v.valid() {
		return "", fmt.Errorf("unknown vote visibility %q (want none, count-only or full)", s)
	}
	return v, nil
}

// Settings are chosen once per match and carried over between rounds.
type Settings struct {
	// EveryoneCanBeImpostor enables rounds in which nobody is bluffing.
	// The first player to call it out wins.
	EveryoneCanBeImpostor bool `json:"everyone_can_be_impostor" yaml:"everyone_can_be_impostor"`

	// EveryoneImpostorChance is the per-round probability of such a round.
	EveryoneImpostorChance float64 `json:"everyone_impostor_chance" yaml:"everyone_impostor_chance"`

	VoteVisibility VoteVisibility `json:"vote_visibility" yaml:"vote_visibility"`
}

func DefaultSettings() Settings {
	return Settings{
		EveryoneCanBeImpostor:  false,
		EveryoneImpostorChance: 0.5,
		VoteVisibility:         VisibilityCountOnly,
	}
}

func (s Settings) Validate() error {
	if s.EveryoneImpostorChance < 0 || s.EveryoneImpostorChance > 1 {
		return fmt.Errorf("impostor chance must be between 0 and 1 inclusive: %v", s.EveryoneImpostorChance)
	}
	if !s.VoteVisibility.valid() {
		return fmt.Errorf("unknown vote visibility %q", s.VoteVisibility)
	}
	return nil
}
