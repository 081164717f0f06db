package game

import (
	"encoding/hex"

	engine "github.com/jason-s-yu/rook/engine"
	"golang.org/x/crypto/blake2b"
)

// kittyMarker separates the kitty from the seat hands in the hashed stream.
const kittyMarker = 0xFE

// DealFingerprint hashes the dealt hands and the kitty. Two deals share a
// fingerprint only if every seat got the same cards in the same order and
// the kitty matches, which lets a replayed hand be checked against the
// recorded one.
func DealFingerprint(hands [engine.NumSeats][]engine.Card, kitty []engine.Card) string {
	buf := make([]byte, 0, 64)
	for seat, cards := range hands {
		buf = append(buf, byte(seat))
		for _, c := range cards {
			buf = append(buf, byte(c))
		}
		buf = append(buf, byte(engine.EmptyCard))
	}
	buf = append(buf, kittyMarker)
	for _, c := range kitty {
		buf = append(buf, byte(c))
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
