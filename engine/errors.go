package engine

import "fmt"

// ErrorKind classifies a rejected action.
type ErrorKind string

const (
	// KindAuthorization: the wrong player tried a dealer/bidder/turn-gated action.
	KindAuthorization ErrorKind = "authorization"
	// KindPhase: the action is not valid in the current phase.
	KindPhase ErrorKind = "phase"
	// KindContent: the action's payload is malformed or illegal.
	KindContent ErrorKind = "content"
	// KindIntegrity: the game or room is not in a state that permits the action.
	KindIntegrity ErrorKind = "integrity"
)

// ActionError is returned for every rejected action. A rejected action never
// mutates state. Two ActionErrors match under errors.Is when their codes match.
type ActionError struct {
	Code    string    `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ActionError) Error() string { return e.Code + ": " + e.Message }

// Is matches on Code so that a detailed copy still matches its sentinel.
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Code == e.Code
}

// withf returns a copy of e with a more specific message.
func (e *ActionError) withf(format string, args ...any) *ActionError {
	return &ActionError{Code: e.Code, Kind: e.Kind, Message: fmt.Sprintf(format, args...)}
}

func newError(kind ErrorKind, code, msg string) *ActionError {
	return &ActionError{Code: code, Kind: kind, Message: msg}
}

// Authorization errors.
var (
	ErrOnlyDealerMayDeal     = newError(KindAuthorization, "onlyDealerMayDeal", "only the dealer may deal")
	ErrOnlyBidderMayAct      = newError(KindAuthorization, "onlyBidderMayAct", "only the winning bidder may do that")
	ErrNotYourTurn           = newError(KindAuthorization, "notYourTurn", "it is not your turn")
	ErrOnlyLastPlayerMayUndo = newError(KindAuthorization, "onlyLastPlayerMayUndo", "only the player who just played may undo")
	ErrNotSeated             = newError(KindAuthorization, "notSeated", "player is not seated at this table")
)

// Phase errors.
var (
	ErrDealNotReady       = newError(KindPhase, "dealNotReady", "a hand can only be dealt before bidding")
	ErrBiddingNotActive   = newError(KindPhase, "biddingNotActive", "bidding is not in progress")
	ErrKittyNotAvailable  = newError(KindPhase, "kittyNotAvailable", "the kitty is not available")
	ErrKittyNotPickedUp   = newError(KindPhase, "kittyNotPickedUp", "the kitty has not been picked up yet")
	ErrTrumpNotReady      = newError(KindPhase, "trumpNotReady", "trump can only be declared after the discard")
	ErrNotTrickPhase      = newError(KindPhase, "notInTrickPhase", "cards can only be played during trick play")
	ErrTrumpNotSet        = newError(KindPhase, "trumpNotSet", "trump has not been declared")
	ErrUndoWindowClosed   = newError(KindPhase, "undoWindowClosed", "undo is only possible during trick play")
	ErrHandNotComplete    = newError(KindPhase, "handNotComplete", "the current hand is not complete")
	ErrGameComplete       = newError(KindPhase, "gameComplete", "the game is over")
	ErrKittyAlreadyPicked = newError(KindPhase, "kittyAlreadyPickedUp", "the kitty has already been picked up")
)

// Content errors.
var (
	ErrBidTooLow                 = newError(KindContent, "bidTooLow", "bid is below the minimum")
	ErrBidTooHigh                = newError(KindContent, "bidTooHigh", "bid is above the maximum")
	ErrBidNotMultiple            = newError(KindContent, "bidNotMultipleOfStep", "bid is not a multiple of the bid step")
	ErrBidNotHigher              = newError(KindContent, "bidNotHigher", "bid must exceed the current high bid")
	ErrPassPartnerUnavailable    = newError(KindContent, "passPartnerUnavailable", "pass-partner is not available")
	ErrDiscardMustMatchKittySize = newError(KindContent, "discardMustMatchKittySize", "discard must contain exactly the kitty size")
	ErrCardsMissingFromHand      = newError(KindContent, "cardsMissingFromHand", "some cards are not in your hand")
	ErrCardNotInHand             = newError(KindContent, "cardNotInHand", "that card is not in your hand")
	ErrIllegalPlay               = newError(KindContent, "illegalPlay", "you must follow the lead color")
	ErrInvalidTrump              = newError(KindContent, "invalidTrump", "trump must be red, yellow, green or black")
	ErrInvalidSettings           = newError(KindContent, "invalidSettings", "invalid table settings")
	ErrNoUndoAvailable           = newError(KindContent, "noUndoAvailable", "there is nothing to undo")
	ErrInvalidSeat               = newError(KindContent, "invalidSeat", "no such seat")
	ErrUnknownAction             = newError(KindContent, "unknownAction", "unknown action")
)

// Integrity errors.
var (
	ErrSeatsNotFull        = newError(KindIntegrity, "seatsNotFull", "all four seats must be filled")
	ErrPlayersNotReady     = newError(KindIntegrity, "playersNotReady", "all players must be ready")
	ErrPlayerAlreadySeated = newError(KindIntegrity, "playerAlreadySeated", "player already occupies another seat")
	ErrPlayerAlreadyPassed = newError(KindIntegrity, "playerAlreadyPassed", "player has already passed")
	ErrBiddingComplete     = newError(KindIntegrity, "biddingComplete", "bidding is already complete")
	ErrNoWinningBid        = newError(KindIntegrity, "noWinningBid", "bidding has no winner yet")
)
