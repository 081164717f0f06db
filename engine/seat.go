package engine

import "fmt"

// PlayerID is the stable identity of a player, independent of any connection.
type PlayerID string

// Seat is one of the four fixed table positions. Seats alternate teams:
// T1P1, T2P1, T1P2, T2P2.
type Seat uint8

const (
	SeatT1P1 Seat = 0
	SeatT2P1 Seat = 1
	SeatT1P2 Seat = 2
	SeatT2P2 Seat = 3

	// NoSeat marks the absence of a seat (e.g. nobody's turn).
	NoSeat Seat = 0xFF
)

// NumSeats is the fixed number of players at a table.
const NumSeats = 4

// SeatOrder lists seats in play order.
var SeatOrder = [NumSeats]Seat{SeatT1P1, SeatT2P1, SeatT1P2, SeatT2P2}

var seatNames = [NumSeats]string{"T1P1", "T2P1", "T1P2", "T2P2"}

// Valid reports whether s is one of the four seats.
func (s Seat) Valid() bool { return s < NumSeats }

func (s Seat) String() string {
	if !s.Valid() {
		return ""
	}
	return seatNames[s]
}

// ParseSeat converts a seat name ("T1P1", ...) to a Seat.
func ParseSeat(name string) (Seat, bool) {
	for i, n := range seatNames {
		if n == name {
			return Seat(i), true
		}
	}
	return NoSeat, false
}

func (s Seat) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Seat) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = NoSeat
		return nil
	}
	parsed, ok := ParseSeat(string(b))
	if !ok {
		return fmt.Errorf("unknown seat %q", b)
	}
	*s = parsed
	return nil
}

// mustSeat panics on an out-of-range seat; reaching it is a programming error.
func mustSeat(s Seat) {
	if !s.Valid() {
		panic(fmt.Sprintf("engine: seat index %d out of range", s))
	}
}

// Next returns the seat to the left (next in play order).
func (s Seat) Next() Seat {
	mustSeat(s)
	return (s + 1) % NumSeats
}

// Partner returns the seat across the table.
func (s Seat) Partner() Seat {
	mustSeat(s)
	return (s + 2) % NumSeats
}

// Team returns the partnership the seat belongs to.
func (s Seat) Team() Team {
	mustSeat(s)
	return Team(s % 2)
}

// Team identifies one of the two partnerships.
type Team uint8

const (
	Team1 Team = 0
	Team2 Team = 1

	NoTeam Team = 0xFF
)

// Valid reports whether t is Team1 or Team2.
func (t Team) Valid() bool { return t == Team1 || t == Team2 }

// Other returns the opposing team.
func (t Team) Other() Team { return 1 - t }

func (t Team) String() string {
	switch t {
	case Team1:
		return "T1"
	case Team2:
		return "T2"
	}
	return ""
}

func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Team) UnmarshalText(b []byte) error {
	switch string(b) {
	case "T1":
		*t = Team1
	case "T2":
		*t = Team2
	case "":
		*t = NoTeam
	default:
		return fmt.Errorf("unknown team %q", b)
	}
	return nil
}
