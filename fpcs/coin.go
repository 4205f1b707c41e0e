package fpcs

import (
	"encoding/binary"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/xof/blake2xb"
)

// Coin is one round's shared randomness. Every honest node evaluating the
// round compares against the same Theta; if each node drew its own, an
// adversary could tailor response counts that cross some nodes'
// thresholds but not others'. Key orders transactions in the
// set-consistency sweep.
type Coin struct {
	Theta float64
	Key   uint64
}

// ThresholdSource draws one Coin per round from a blake2 XOF seeded with
// the run seed, so the whole coin sequence is fixed by the seed.
type ThresholdSource struct {
	xof       kyber.XOF
	low, high float64
}

// NewThresholdSource returns a source drawing thresholds uniformly from
// [low, high].
func NewThresholdSource(seed int64, low, high float64) *ThresholdSource {
	return &ThresholdSource{
		xof:  blake2xb.New(seedBytes(seed, "coin")),
		low:  low,
		high: high,
	}
}

// Draw produces the next round's coin.
func (s *ThresholdSource) Draw() Coin {
	var buf [16]byte
	s.xof.Read(buf[:])
	u := binary.BigEndian.Uint64(buf[:8])
	frac := float64(u>>11) / (1 << 53) // uniform in [0, 1)
	return Coin{
		Theta: s.low + frac*(s.high-s.low),
		Key:   binary.BigEndian.Uint64(buf[8:]),
	}
}

// deriveSeeds expands the run seed into n independent substream seeds,
// one per node, so parallel node evaluations stay deterministic.
func deriveSeeds(seed int64, n int) []int64 {
	xof := blake2xb.New(seedBytes(seed, "substream"))
	out := make([]int64, n)
	var buf [8]byte
	for i := range out {
		xof.Read(buf[:])
		out[i] = int64(binary.BigEndian.Uint64(buf[:]))
	}
	return out
}

func seedBytes(seed int64, domain string) []byte {
	b := make([]byte, 8, 8+len(domain))
	binary.BigEndian.PutUint64(b, uint64(seed))
	return append(b, domain...)
}

// orderKey ranks tx under the round coin for the elim/comp sweep. A
// 64-bit integer mix is enough here: the key only needs to be a fixed
// pseudo-random order shared by all nodes in the round.
func orderKey(tx int, key uint64) uint64 {
	x := (uint64(tx)+1)*0x9e3779b97f4a7c15 ^ key
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
