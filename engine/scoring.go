package engine

const (
	// LastTrickBonus is awarded to the team that takes the final trick.
	LastTrickBonus = 20
	// TotalPoints is the hand's point pool: every card plus the bonus.
	TotalPoints = CardPoints + LastTrickBonus
)

// HandResult is the outcome of scoring one hand.
type HandResult struct {
	// Points are the raw points each team captured, including the last-trick
	// bonus and the kitty. They always sum to TotalPoints.
	Points [2]int `json:"points"`
	// Scores are what each team adds to its cumulative score.
	Scores [2]int `json:"scores"`
	// BiddersSet is true when the bidding team failed its contract.
	BiddersSet bool `json:"biddersSet"`
}

// ScoreHand tallies a completed hand.
//
// Captured card points go to the capturing team. The last-trick team also
// receives LastTrickBonus and the points of the kitty. If the bidding team
// captured fewer points than its bid it scores exactly -bid; the defenders
// always score their raw points.
func ScoreHand(captured [2][]Card, lastTrickTeam Team, kitty []Card, biddingTeam Team, bid int) HandResult {
	var res HandResult
	for t := range captured {
		res.Points[t] = CountPoints(captured[t])
	}
	if lastTrickTeam.Valid() {
		res.Points[lastTrickTeam] += LastTrickBonus + CountPoints(kitty)
	}

	res.Scores = res.Points
	if biddingTeam.Valid() && res.Points[biddingTeam] < bid {
		res.BiddersSet = true
		res.Scores[biddingTeam] = -bid
	}
	return res
}
