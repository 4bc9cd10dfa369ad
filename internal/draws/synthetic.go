package draws

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/contactkeval/option-mc/internal/logger"
)

// pcgStream decorrelates the two PCG words derived from one seed.
const pcgStream = 0x9e3779b97f4a7c15

// syntheticProvider draws from a seeded unit normal. Same seed, same stream.
type syntheticProvider struct {
	seed uint64
	dist distuv.Normal
}

// NewSyntheticProvider returns an unbounded pseudo-random provider.
func NewSyntheticProvider(seed uint64) Provider {
	logger.Debugf("initializing synthetic draw provider seed=%d", seed)
	return &syntheticProvider{
		seed: seed,
		dist: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed^pcgStream)},
	}
}

func (synth *syntheticProvider) Name() string {
	return fmt.Sprintf("%s(seed=%d)", KindSynthetic, synth.seed)
}

// Secondary is always nil: the stream never runs dry.
func (synth *syntheticProvider) Secondary() Provider {
	return nil
}

func (synth *syntheticProvider) Draws(n int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = synth.dist.Rand()
	}
	logger.Tracef("synthetic provider produced %d draws", n)
	return out, nil
}
