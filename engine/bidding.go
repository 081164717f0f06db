package engine

// BidKind identifies an entry in the bidding history.
type BidKind string

const (
	BidKindBid         BidKind = "bid"
	BidKindPass        BidKind = "pass"
	BidKindPassPartner BidKind = "passPartner"
)

// BidEntry is one action in the bidding history.
type BidEntry struct {
	Seat   Seat    `json:"seat"`
	Kind   BidKind `json:"kind"`
	Amount int     `json:"amount,omitempty"`
}

// HighBid is the standing bid and the seat that placed it.
type HighBid struct {
	Seat   Seat `json:"seat"`
	Amount int  `json:"amount"`
}

// BiddingState is the auction for one hand.
//
// The auction is complete once three seats have passed. If none of them bid,
// the remaining seat is always the dealer, who is awarded MinBid as a
// fallback contract.
type BiddingState struct {
	Dealer          Seat           `json:"dealer"`
	CurrentPlayer   Seat           `json:"currentPlayer"`
	MinBid          int            `json:"minBid"`
	Step            int            `json:"step"`
	MaxBid          int            `json:"maxBid"`
	HighBid         *HighBid       `json:"highBid,omitempty"`
	Passed          [NumSeats]bool `json:"passed"`
	PassPartnerUsed [2]bool        `json:"passPartnerUsed"`
	History         []BidEntry     `json:"history"`
}

// NewBidding opens an auction. The seat left of the dealer acts first.
func NewBidding(dealer Seat, s Settings) BiddingState {
	return BiddingState{
		Dealer:        dealer,
		CurrentPlayer: dealer.Next(),
		MinBid:        s.MinBid,
		Step:          s.BidStep,
		MaxBid:        s.MaxBid,
		History:       []BidEntry{},
	}
}

// PassedCount returns how many seats have passed.
func (b *BiddingState) PassedCount() int {
	n := 0
	for _, p := range b.Passed {
		if p {
			n++
		}
	}
	return n
}

// IsComplete reports whether the auction has finished.
func (b *BiddingState) IsComplete() bool {
	return b.PassedCount() >= NumSeats-1
}

// AllPassed reports whether the auction closed without a bid being placed.
func (b *BiddingState) AllPassed() bool {
	return b.HighBid == nil && b.IsComplete()
}

// WinningBid returns the contract once the auction is complete. With no bid
// placed the dealer holds MinBid.
func (b *BiddingState) WinningBid() (HighBid, bool) {
	if !b.IsComplete() {
		return HighBid{}, false
	}
	if b.HighBid != nil {
		return *b.HighBid, true
	}
	return HighBid{Seat: b.Dealer, Amount: b.MinBid}, true
}

// guard checks the common preconditions of every auction action.
func (b *BiddingState) guard(seat Seat) error {
	if b.IsComplete() {
		return ErrBiddingComplete
	}
	if seat != b.CurrentPlayer {
		return ErrNotYourTurn.withf("bidding turn belongs to %s", b.CurrentPlayer)
	}
	if b.Passed[seat] {
		return ErrPlayerAlreadyPassed
	}
	return nil
}

// Bid places a bid for seat.
func (b *BiddingState) Bid(seat Seat, amount int) error {
	if err := b.guard(seat); err != nil {
		return err
	}
	switch {
	case amount < b.MinBid:
		return ErrBidTooLow.withf("bid %d is below the minimum of %d", amount, b.MinBid)
	case amount > b.MaxBid:
		return ErrBidTooHigh.withf("bid %d is above the maximum of %d", amount, b.MaxBid)
	case amount%b.Step != 0:
		return ErrBidNotMultiple.withf("bid %d is not a multiple of %d", amount, b.Step)
	case b.HighBid != nil && amount <= b.HighBid.Amount:
		return ErrBidNotHigher.withf("bid %d does not exceed %d", amount, b.HighBid.Amount)
	}

	b.HighBid = &HighBid{Seat: seat, Amount: amount}
	b.History = append(b.History, BidEntry{Seat: seat, Kind: BidKindBid, Amount: amount})
	b.advance()
	return nil
}

// Pass removes seat from the auction for the rest of the hand.
func (b *BiddingState) Pass(seat Seat) error {
	if err := b.guard(seat); err != nil {
		return err
	}
	b.Passed[seat] = true
	b.History = append(b.History, BidEntry{Seat: seat, Kind: BidKindPass})
	b.advance()
	return nil
}

// PassPartner lets seat decline to outbid its partner without leaving the
// auction. Each team may use it once per hand.
func (b *BiddingState) PassPartner(seat Seat) error {
	if err := b.guard(seat); err != nil {
		return err
	}
	switch {
	case b.HighBid == nil:
		return ErrPassPartnerUnavailable.withf("no bid has been placed")
	case b.HighBid.Seat != seat.Partner():
		return ErrPassPartnerUnavailable.withf("the high bid was not placed by your partner")
	case b.PassPartnerUsed[seat.Team()]:
		return ErrPassPartnerUnavailable.withf("your team has already used pass-partner this hand")
	}
	b.PassPartnerUsed[seat.Team()] = true
	b.History = append(b.History, BidEntry{Seat: seat, Kind: BidKindPassPartner})
	b.advance()
	return nil
}

// advance moves the turn to the next seat that has not passed. Once the
// auction completes the turn is cleared.
func (b *BiddingState) advance() {
	if b.IsComplete() {
		b.CurrentPlayer = NoSeat
		return
	}
	next := b.CurrentPlayer
	for i := 0; i < NumSeats; i++ {
		next = next.Next()
		if !b.Passed[next] {
			b.CurrentPlayer = next
			return
		}
	}
}

// clone returns a deep copy.
func (b BiddingState) clone() BiddingState {
	if b.HighBid != nil {
		hb := *b.HighBid
		b.HighBid = &hb
	}
	if b.History != nil {
		b.History = append(make([]BidEntry, 0, len(b.History)), b.History...)
	}
	return b
}
