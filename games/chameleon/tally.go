/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

// CountVotes returns the number of accusations against every seated
// player. Players nobody accused are present with zero. Absent votes and
// votes for unseated ids are ignored.
func CountVotes(order []PlayerID, votes map[PlayerID]PlayerID) map[PlayerID]int {
	counts := playerMap(order, 0)

	for _, accused := range votes {
		if accused == "" {
			continue
		}
		if _, ok := counts[accused]; !ok {
			continue
		}
		counts[accused]++
	}

	return counts
}

// MostVoted returns every player sharing the highest vote count, in seat
// order. Ties are kept.
func MostVoted(order []PlayerID, votes map[PlayerID]PlayerID) []PlayerID {
	counts := CountVotes(order, votes)

	highest := 0
	for _, n := range counts {
		highest = max(highest, n)
	}

	leaders := make([]PlayerID, 0, 1)
	for _, p := range order {
		if counts[p] == highest {
			leaders = append(leaders, p)
		}
	}

	return leaders
}
