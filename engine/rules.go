package engine

import "fmt"

// RookRankMode places the Rook above or below every ordinary trump card.
type RookRankMode string

const (
	RookHigh RookRankMode = "high"
	RookLow  RookRankMode = "low"
)

// Valid reports whether m is a known rook rank mode.
func (m RookRankMode) Valid() bool { return m == RookHigh || m == RookLow }

// Settings holds the configurable table preset.
type Settings struct {
	DeckMode     DeckMode     `json:"deckMode"`
	RookRankMode RookRankMode `json:"rookRankMode"`
	TargetScore  int          `json:"targetScore"`
	MinBid       int          `json:"minBid"`
	BidStep      int          `json:"bidStep"`
	MaxBid       int          `json:"maxBid"`
	// AutoPickupKitty moves the kitty into the winning bidder's hand as soon
	// as bidding completes. When false the bidder must call PickupKitty.
	AutoPickupKitty bool `json:"autoPickupKitty"`
}

// DefaultSettings returns the standard table preset.
func DefaultSettings() Settings {
	return Settings{
		DeckMode:        DeckFull,
		RookRankMode:    RookHigh,
		TargetScore:     500,
		MinBid:          100,
		BidStep:         5,
		MaxBid:          200,
		AutoPickupKitty: true,
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	switch {
	case !s.DeckMode.Valid():
		return ErrInvalidSettings.withf("unknown deck mode %q", s.DeckMode)
	case !s.RookRankMode.Valid():
		return ErrInvalidSettings.withf("unknown rook rank mode %q", s.RookRankMode)
	case s.TargetScore <= 0:
		return ErrInvalidSettings.withf("target score must be positive, got %d", s.TargetScore)
	case s.BidStep <= 0:
		return ErrInvalidSettings.withf("bid step must be positive, got %d", s.BidStep)
	case s.MinBid <= 0 || s.MinBid > s.MaxBid:
		return ErrInvalidSettings.withf("bid range [%d, %d] is empty", s.MinBid, s.MaxBid)
	case s.MinBid%s.BidStep != 0 || s.MaxBid%s.BidStep != 0:
		return ErrInvalidSettings.withf("bid range [%d, %d] is not aligned to step %d", s.MinBid, s.MaxBid, s.BidStep)
	}
	if (DeckSize(s.DeckMode)-KittySize)%NumSeats != 0 {
		return ErrInvalidSettings.withf("deck mode %q cannot be dealt evenly", s.DeckMode)
	}
	return nil
}

func (s Settings) String() string {
	return fmt.Sprintf("deck=%s rook=%s target=%d bids=[%d..%d step %d]",
		s.DeckMode, s.RookRankMode, s.TargetScore, s.MinBid, s.MaxBid, s.BidStep)
}
