package engine

import "testing"

// mustCard parses a card id or fails the test.
func mustCard(t *testing.T, id string) Card {
	t.Helper()
	c, err := ParseCard(id)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", id, err)
	}
	return c
}

// mustCards parses several card ids.
func mustCards(t *testing.T, ids ...string) []Card {
	t.Helper()
	out := make([]Card, len(ids))
	for i, id := range ids {
		out[i] = mustCard(t, id)
	}
	return out
}

func TestBuildDeckSizes(t *testing.T) {
	cases := []struct {
		mode DeckMode
		want int
		hand int
	}{
		{DeckFull, 57, 13},
		{DeckFast, 45, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			deck := BuildDeck(tc.mode)
			if len(deck) != tc.want {
				t.Fatalf("len(deck) = %d, want %d", len(deck), tc.want)
			}
			if DeckSize(tc.mode) != tc.want {
				t.Errorf("DeckSize = %d, want %d", DeckSize(tc.mode), tc.want)
			}
			if HandSize(tc.mode) != tc.hand {
				t.Errorf("HandSize = %d, want %d", HandSize(tc.mode), tc.hand)
			}

			seen := make(map[Card]bool)
			rooks := 0
			for i, c := range deck {
				if !c.Valid() {
					t.Errorf("deck[%d] = 0x%02x is not a valid card", i, uint8(c))
				}
				if seen[c] {
					t.Errorf("duplicate card %s at index %d", c, i)
				}
				seen[c] = true
				if c.IsRook() {
					rooks++
				}
				if tc.mode == DeckFast && !c.IsRook() && c.Rank() >= 2 && c.Rank() <= 4 {
					t.Errorf("fast deck contains %s", c)
				}
			}
			if rooks != 1 {
				t.Errorf("rook count = %d, want 1", rooks)
			}
			if got := CountPoints(deck); got != CardPoints {
				t.Errorf("CountPoints(deck) = %d, want %d", got, CardPoints)
			}
		})
	}
}

func TestCardPoints(t *testing.T) {
	cases := map[string]int{
		"red-1":    15,
		"yellow-5": 5,
		"green-10": 10,
		"black-14": 10,
		"rook":     20,
		"red-2":    0,
		"black-13": 0,
		"yellow-9": 0,
		"green-11": 0,
	}
	for id, want := range cases {
		c := mustCard(t, id)
		if c.Points() != want {
			t.Errorf("%s.Points() = %d, want %d", id, c.Points(), want)
		}
		if c.IsPointCard() != (want > 0) {
			t.Errorf("%s.IsPointCard() = %v", id, c.IsPointCard())
		}
	}
}

func TestCardIDRoundTrip(t *testing.T) {
	for _, c := range BuildDeck(DeckFull) {
		got, err := ParseCard(c.ID())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.ID(), err)
		}
		if got != c {
			t.Errorf("ParseCard(%q) = %s, want %s", c.ID(), got, c)
		}
	}

	for _, bad := range []string{"", "red", "purple-3", "red-0", "red-15", "green-x"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) succeeded, want error", bad)
		}
	}
}

func TestRookCard(t *testing.T) {
	if RookCard.Color() != ColorNone {
		t.Errorf("rook color = %v, want none", RookCard.Color())
	}
	if RookCard.Rank() != 0 {
		t.Errorf("rook rank = %d, want 0", RookCard.Rank())
	}
	if RookCard.ID() != "rook" {
		t.Errorf("rook id = %q", RookCard.ID())
	}
}

func TestRemoveCards(t *testing.T) {
	hand := mustCards(t, "red-5", "red-5", "green-1", "rook")

	rest, ok := RemoveCards(hand, mustCards(t, "red-5", "rook"))
	if !ok {
		t.Fatal("RemoveCards reported missing cards")
	}
	if len(rest) != 2 || rest[0] != mustCard(t, "red-5") || rest[1] != mustCard(t, "green-1") {
		t.Errorf("rest = %v, want [red-5 green-1]", rest)
	}
	if len(hand) != 4 {
		t.Errorf("input hand modified: %v", hand)
	}

	if _, ok := RemoveCards(hand, mustCards(t, "red-5", "red-5", "red-5")); ok {
		t.Error("removing three red-5 from two succeeded")
	}
	if _, ok := RemoveCards(hand, mustCards(t, "black-2")); ok {
		t.Error("removing an absent card succeeded")
	}
}

func TestDeal(t *testing.T) {
	deck := BuildDeck(DeckFull)
	hands, kitty, err := Deal(deck, KittySize)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if len(kitty) != KittySize {
		t.Errorf("len(kitty) = %d, want %d", len(kitty), KittySize)
	}
	for s, h := range hands {
		if len(h) != 13 {
			t.Errorf("len(hands[%d]) = %d, want 13", s, len(h))
		}
		if h[0] != deck[s] {
			t.Errorf("hands[%d][0] = %s, want %s (round robin)", s, h[0], deck[s])
		}
	}

	if _, _, err := Deal(deck, 4); err == nil {
		t.Error("Deal with kitty 4 from 57 cards succeeded, want error")
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := BuildDeck(DeckFull)
	b := BuildDeck(DeckFull)
	Shuffle(a, NewRand(99))
	Shuffle(b, NewRand(99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffles diverge at %d: %s vs %s", i, a[i], b[i])
		}
	}

	c := BuildDeck(DeckFull)
	Shuffle(c, NewRand(100))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical shuffles")
	}
	if CountPoints(a) != CardPoints {
		t.Errorf("shuffle changed point total to %d", CountPoints(a))
	}
}

func TestSeedFrom(t *testing.T) {
	if SeedFrom("ABCD", 1000) != SeedFrom("ABCD", 1000) {
		t.Error("SeedFrom is not deterministic")
	}
	if SeedFrom("ABCD", 1000) == SeedFrom("ABCD", 1001) {
		t.Error("SeedFrom ignores the timestamp")
	}
	if SeedFrom("ABCD", 1000) == SeedFrom("ABCE", 1000) {
		t.Error("SeedFrom ignores the room code")
	}
}

func TestNewRandZeroSeed(t *testing.T) {
	r := NewRand(0)
	if r.state != 1 {
		t.Errorf("state = %d, want 1 for seed 0", r.state)
	}
}

func TestSeatRelations(t *testing.T) {
	cases := []struct {
		seat    Seat
		next    Seat
		partner Seat
		team    Team
	}{
		{SeatT1P1, SeatT2P1, SeatT1P2, Team1},
		{SeatT2P1, SeatT1P2, SeatT2P2, Team2},
		{SeatT1P2, SeatT2P2, SeatT1P1, Team1},
		{SeatT2P2, SeatT1P1, SeatT2P1, Team2},
	}
	for _, tc := range cases {
		if tc.seat.Next() != tc.next {
			t.Errorf("%s.Next() = %s, want %s", tc.seat, tc.seat.Next(), tc.next)
		}
		if tc.seat.Partner() != tc.partner {
			t.Errorf("%s.Partner() = %s, want %s", tc.seat, tc.seat.Partner(), tc.partner)
		}
		if tc.seat.Team() != tc.team {
			t.Errorf("%s.Team() = %s, want %s", tc.seat, tc.seat.Team(), tc.team)
		}
	}
}

func TestSeatOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Seat(7).Next() did not panic")
		}
	}()
	_ = Seat(7).Next()
}
