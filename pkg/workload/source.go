// Package workload generates the classifications, object references,
// attachments and tasks that fill a domain's containers.
package workload

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	TaskIDPrefix           = "TKI:"
	ClassificationIDPrefix = "CLI:"
)

// Source is the seeded randomness of a generation run. Equal seeds produce
// equal picks and equal ids.
type Source struct {
	stream *rand.ChaCha8
	rnd    *rand.Rand
}

func NewSource(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	stream := rand.NewChaCha8(key)
	return &Source{stream: stream, rnd: rand.New(stream)}
}

// IntN returns a number in [0, n).
func (s *Source) IntN(n int) int {
	return s.rnd.IntN(n)
}

func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rnd.Shuffle(n, swap)
}

// ID returns prefix followed by a random UUID drawn from the seeded stream.
func (s *Source) ID(prefix string) string {
	return prefix + uuid.Must(uuid.NewRandomFromReader(s.stream)).String()
}
