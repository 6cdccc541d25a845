// Package study replays a validated artifact interactively. Sessions are
// owned by a single client and are not safe for concurrent use.
package study

import (
	"math/rand/v2"
	"time"
)

// sequence is the order and cursor shared by both session kinds.
type sequence struct {
	order []int
	index int
}

func newSequence(n int) sequence {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return sequence{order: order}
}

func (s *sequence) len() int { return len(s.order) }

// current returns the artifact index under the cursor.
func (s *sequence) current() (int, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[s.index], true
}

func (s *sequence) shuffle(rng *rand.Rand) {
	rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	s.index = 0
}

func (s *sequence) advance() bool {
	if s.index+1 >= len(s.order) {
		return false
	}
	s.index++
	return true
}

func (s *sequence) retreat() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

func (s *sequence) atLast() bool {
	return len(s.order) > 0 && s.index == len(s.order)-1
}

// Order returns a copy of the current permutation of artifact indices.
func (s *sequence) Order() []int {
	return append([]int(nil), s.order...)
}

// Index is the cursor position within Order.
func (s *sequence) Index() int { return s.index }

// Progress reports the 1-based position and the total item count.
func (s *sequence) Progress() (position, total int) {
	if len(s.order) == 0 {
		return 0, 0
	}
	return s.index + 1, len(s.order)
}

type options struct {
	rng *rand.Rand
	now func() time.Time
}

// Option customises a session.
type Option func(*options)

// WithRand sets the source used by Shuffle.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithClock sets the time used when scheduling self-ratings.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}
