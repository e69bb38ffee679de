package algo

import (
	"errors"
	"math"

	"github.com/puckline/matchup/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample size minimums for the normality tests.
const (
	MinDAgostinoN  = 8
	MinJarqueBeraN = 3
)

// DefaultAlpha is the significance level used to call a sample normal.
const DefaultAlpha = 0.05

// Normality test names as they appear in reports.
const (
	DAgostinoTest  = "dagostino_pearson_k2"
	JarqueBeraTest = "jarque_bera"
)

var errSmallSample = errors.New("sample too small")

var chiSquared2 = distuv.ChiSquared{K: 2}

// finiteValues drops NaN and infinite values.
func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// moments returns the biased sample skewness g1 and kurtosis b2 (not excess).
func moments(xs []float64) (g1, b2 float64) {
	m2 := stat.Moment(2, xs, nil)
	m3 := stat.Moment(3, xs, nil)
	m4 := stat.Moment(4, xs, nil)
	if m2 == 0 {
		return math.NaN(), math.NaN()
	}
	return m3 / math.Pow(m2, 1.5), m4 / (m2 * m2)
}

// skewZ is the D'Agostino skewness transform to an approximately standard normal.
func skewZ(g1 float64, n float64) float64 {
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	return delta * math.Asinh(y/alpha)
}

// kurtosisZ is the Anscombe-Glynn kurtosis transform to an approximately standard normal.
func kurtosisZ(b2 float64, n float64) float64 {
	e := 3 * (n - 1) / (n + 1)
	varb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(varb2)
	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return math.NaN()
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a))
}

// DAgostinoK2 runs the D'Agostino-Pearson omnibus test. It needs at least
// MinDAgostinoN finite values and a non-zero variance.
func DAgostinoK2(values []float64) (statistic, pValue float64, err error) {
	xs := finiteValues(values)
	if len(xs) < MinDAgostinoN {
		return 0, 0, errSmallSample
	}
	g1, b2 := moments(xs)
	if math.IsNaN(g1) {
		return 0, 0, errors.New("zero variance")
	}
	n := float64(len(xs))
	zs, zk := skewZ(g1, n), kurtosisZ(b2, n)
	k2 := zs*zs + zk*zk
	if math.IsNaN(k2) {
		return 0, 0, errors.New("undefined statistic")
	}
	return k2, chiSquared2.Survival(k2), nil
}

// JarqueBera runs the Jarque-Bera test. It needs at least MinJarqueBeraN finite
// values and a non-zero variance.
func JarqueBera(values []float64) (statistic, pValue float64, err error) {
	xs := finiteValues(values)
	if len(xs) < MinJarqueBeraN {
		return 0, 0, errSmallSample
	}
	g1, b2 := moments(xs)
	if math.IsNaN(g1) {
		return 0, 0, errors.New("zero variance")
	}
	n := float64(len(xs))
	excess := b2 - 3
	jb := n / 6 * (g1*g1 + excess*excess/4)
	return jb, chiSquared2.Survival(jb), nil
}

// Summarize describes a distribution. Statistics that cannot be computed are nil.
func Summarize(values []float64, alpha float64) schema.SummaryStats {
	xs := finiteValues(values)
	out := schema.SummaryStats{N: len(xs)}
	if len(xs) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(xs, nil)
	out.Mean = ptr(mean)
	out.Std = ptr(std)
	out.Min = ptr(floats.Min(xs))
	out.Max = ptr(floats.Max(xs))
	if len(xs) >= 3 && std > 0 {
		out.Skew = ptr(stat.Skew(xs, nil))
	}
	if len(xs) >= 4 && std > 0 {
		out.Kurtosis = ptr(stat.ExKurtosis(xs, nil))
	}

	var pvals []float64
	if len(xs) >= MinDAgostinoN {
		res := &schema.NormalityResult{Test: DAgostinoTest}
		if k2, p, err := DAgostinoK2(xs); err == nil {
			res.Statistic, res.PValue = ptr(k2), ptr(p)
			pvals = append(pvals, p)
		}
		out.DAgostino = res
	}
	if len(xs) >= MinJarqueBeraN {
		res := &schema.NormalityResult{Test: JarqueBeraTest}
		if jb, p, err := JarqueBera(xs); err == nil {
			res.Statistic, res.PValue = ptr(jb), ptr(p)
			pvals = append(pvals, p)
		}
		out.JarqueBera = res
	}
	if len(pvals) > 0 {
		normal := true
		for _, p := range pvals {
			if p <= alpha {
				normal = false
			}
		}
		out.NormalAtAlpha = &normal
	}
	return out
}

// Correlation is the Pearson correlation of two equally sized samples, or NaN
// when either has no variance.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
