package pricing

import "math"

// Acklam's rational approximation to the normal quantile.
var (
	invA = [6]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	invB = [5]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	invC = [6]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	invD = [4]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}
)

const invPLow = 0.02425

// NormInv is the inverse of the standard normal CDF: it returns x such that
// N(x) = p.
//
// The rational approximation (relative error ~1e-9) is polished with one
// Halley step against normCDF, which brings it to near machine precision.
//
// Panics if p is not strictly between 0 and 1.
//
// Example:
//
//	NormInv(0.975) // ~1.959964
//	NormInv(0.5)   // 0
func NormInv(p float64) float64 {
	if !(p > 0 && p < 1) {
		panic("NormInv: p must be in (0,1)")
	}

	// 1-p is exact for p in [0.5, 1), so the upper half mirrors the lower.
	if p > 0.5 {
		return -NormInv(1 - p)
	}

	var x float64
	if p < invPLow {
		q := math.Sqrt(-2 * math.Log(p))
		x = (((((invC[0]*q+invC[1])*q+invC[2])*q+invC[3])*q+invC[4])*q + invC[5]) /
			((((invD[0]*q+invD[1])*q+invD[2])*q+invD[3])*q + 1)
	} else {
		q := p - 0.5
		r := q * q
		x = (((((invA[0]*r+invA[1])*r+invA[2])*r+invA[3])*r+invA[4])*r + invA[5]) * q /
			(((((invB[0]*r+invB[1])*r+invB[2])*r+invB[3])*r+invB[4])*r + 1)
	}

	// Halley refinement
	e := normCDF(x) - p
	u := e * sqrt2Pi * math.Exp(0.5*x*x)
	return x - u/(1+0.5*x*u)
}
