package wheel

import (
	"errors"
	"math/rand"
	"strconv"
)

// House is one wheel segment: a positive cash amount or a negative penalty code.
type House int

const (
	Bankrupt      House = -1
	RecoveryToken House = -2
	LoseTurn      House = -3
	FreeVowel     House = -4
)

var ErrNoHouses = errors.New("wheel has no houses")

func (h House) IsPenalty() bool { return h < 0 }

// Value is the cash amount awarded per letter occurrence, 0 for penalties.
func (h House) Value() int {
	if h.IsPenalty() {
		return 0
	}
	return int(h)
}

func (h House) String() string {
	switch h {
	case Bankrupt:
		return "Bankrupt"
	case RecoveryToken:
		return "Recovery token"
	case LoseTurn:
		return "Lose a turn"
	case FreeVowel:
		return "Free vowel"
	}
	return strconv.Itoa(int(h))
}

// DefaultHouses is the reference 20-house layout.
var DefaultHouses = []House{
	5000, Bankrupt, 750, 1000, 600, 250, FreeVowel, 1500,
	450, 200, RecoveryToken, 150, 800, 900, 50, 850, 1200,
	2000, LoseTurn, 100,
}

type Wheel struct {
	houses []House
	rng    *rand.Rand
}

func New(houses []House, rng *rand.Rand) (*Wheel, error) {
	if len(houses) == 0 {
		return nil, ErrNoHouses
	}
	hs := make([]House, len(houses))
	copy(hs, houses)
	return &Wheel{houses: hs, rng: rng}, nil
}

func Default(rng *rand.Rand) *Wheel {
	w, _ := New(DefaultHouses, rng)
	return w
}

// Spin picks one house uniformly at random.
func (w *Wheel) Spin() House {
	return w.houses[w.rng.Intn(len(w.houses))]
}

func (w *Wheel) Houses() []House {
	out := make([]House, len(w.houses))
	copy(out, w.houses)
	return out
}
