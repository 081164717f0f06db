// Package agent implements a heuristic autoplayer for the Rook engine. It
// tracks what a seat has seen during a hand and picks a legal action for it.
package agent

import engine "github.com/jason-s-yu/rook/engine"

// Strength buckets a hand's estimated trick-taking value.
type Strength uint8

const (
	StrengthWeak   Strength = iota // 0: pass immediately
	StrengthFair                   // 1: open at the minimum, never raise
	StrengthGood                   // 2: raise up to a modest ceiling
	StrengthStrong                 // 3: raise aggressively
)

func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "weak"
	case StrengthFair:
		return "fair"
	case StrengthGood:
		return "good"
	case StrengthStrong:
		return "strong"
	}
	return "unknown"
}

// Evaluation weights. A hand's score is the sum over cards of the card's
// weight plus a length bonus for the longest color.
const (
	weightRook      = 12
	weightTopRank   = 8 // rank 1
	weightHighRank  = 4 // ranks 12-14
	weightPointCard = 2 // 5s and 10s
	weightPerLength = 3 // per card of the longest color beyond four
)

// Score thresholds for each strength bucket.
const (
	thresholdFair   = 30
	thresholdGood   = 42
	thresholdStrong = 55
)

// bidCeiling is the highest bid each bucket will make.
var bidCeiling = [...]int{
	StrengthWeak:   0,
	StrengthFair:   100,
	StrengthGood:   130,
	StrengthStrong: 165,
}

// noColor is returned when a hand holds no suited cards.
const noColor = engine.ColorNone
