package bracket

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Randomizer is the source of every random choice the engine makes.
// *rand.Rand satisfies it.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

// NewRandomizer returns a PCG-backed Randomizer. A zero seed gives a
// nondeterministic source.
func NewRandomizer(seed uint64) Randomizer {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// lockedRand serialises access to a Randomizer so one Engine can serve
// concurrent requests.
type lockedRand struct {
	mu  sync.Mutex
	rng Randomizer
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng.Shuffle(n, swap)
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.IntN(n)
}

// Engine holds the collaborators of the pure scheduling functions. It keeps
// no tournament state; every method takes a Tournament and returns a new one.
// An Engine is safe for concurrent use.
type Engine struct {
	rng Randomizer
	now func() time.Time
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(rng Randomizer, opts ...EngineOption) *Engine {
	if _, ok := rng.(*lockedRand); !ok {
		rng = &lockedRand{rng: rng}
	}
	e := &Engine{rng: rng, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) byeID() string {
	return ByePrefix + strconv.FormatInt(e.now().UnixMilli(), 10)
}
