package draws

// antitheticProvider pairs every draw z from inner with -z. The pairs are
// negatively correlated, which cuts the variance of monotone payoffs.
type antitheticProvider struct {
	inner Provider
}

// NewAntitheticProvider wraps inner. For odd n the mirror of the last draw is
// dropped, so exactly n draws are returned.
func NewAntitheticProvider(inner Provider) Provider {
	return &antitheticProvider{inner: inner}
}

func (anti *antitheticProvider) Name() string {
	return KindAntithetic + "(" + anti.inner.Name() + ")"
}

func (anti *antitheticProvider) Secondary() Provider {
	return anti.inner
}

func (anti *antitheticProvider) Draws(n int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	base, err := anti.inner.Draws((n + 1) / 2)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, z := range base {
		out[2*i] = z
		if 2*i+1 < n {
			out[2*i+1] = -z
		}
	}
	return out, nil
}
