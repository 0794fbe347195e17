package game

// Roster holds the players in seating order and whose turn it is.
type Roster struct {
	players []*Player
	idx     int
}

func NewRoster(names []string) *Roster {
	r := &Roster{players: make([]*Player, 0, len(names))}
	for _, n := range names {
		r.players = append(r.players, &Player{Name: n})
	}
	return r
}

func (r *Roster) Current() *Player { return r.players[r.idx] }

// Advance hands the turn to the next seat, wrapping around, and returns that player.
func (r *Roster) Advance() *Player {
	r.idx = (r.idx + 1) % len(r.players)
	return r.players[r.idx]
}

func (r *Roster) Len() int   { return len(r.players) }
func (r *Roster) Index() int { return r.idx }

// Players returns copies; only the game mutates player state.
func (r *Roster) Players() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}
