package scores

// ValidatePoints checks a single score value. nil means "clear the cell"
// and is always allowed.
func ValidatePoints(points *int) error {
	if points == nil {
		return nil
	}
	if *points < 0 || *points > MaxPoints {
		return ErrPointsOutOfRange
	}
	return nil
}

// zeroWinners counts roster players with zero points in a complete round.
// A valid round has exactly one: the round's winner.
func (s *Store) zeroWinners(pointsByPlayer map[string]int) []string {
	var winners []string
	for _, playerID := range s.roster {
		if pointsByPlayer[playerID] == 0 {
			winners = append(winners, playerID)
		}
	}
	return winners
}

// validateRoundForClose enforces the one-zero-winner rule on a complete
// round at close time. Violations are fatal for the whole close.
func (s *Store) validateRoundForClose(roundID string, pointsByPlayer map[string]int) (winner string, err error) {
	winners := s.zeroWinners(pointsByPlayer)
	if len(winners) != 1 {
		return "", &InvalidRoundResultError{RoundID: roundID, ZeroWinners: len(winners)}
	}
	return winners[0], nil
}

// completePoints returns the round's points keyed by player if every roster
// player has an entry, else nil.
func (s *Store) completePoints(pointsByPlayer map[string]int) map[string]int {
	if len(pointsByPlayer) != len(s.roster) {
		return nil
	}
	for _, playerID := range s.roster {
		if _, ok := pointsByPlayer[playerID]; !ok {
			return nil
		}
	}
	return pointsByPlayer
}
