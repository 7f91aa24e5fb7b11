package analytics

import "math"

// pairAcc accumulates the sums needed for an exact Pearson coefficient over
// jointly non-null rows.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (p *pairAcc) add(x, y float64) {
	p.n++
	p.sumX += x
	p.sumY += y
	p.sumXX += x * x
	p.sumYY += y * y
	p.sumXY += x * y
}

// r returns the Pearson coefficient, or ok=false when it is undefined
// (too few rows handled by the caller; zero variance handled here).
func (p *pairAcc) r() (float64, bool) {
	denom := math.Sqrt((p.n*p.sumXX - p.sumX*p.sumX) * (p.n*p.sumYY - p.sumY*p.sumY))
	if denom == 0 || p.n < 2 {
		return 0, false
	}
	r := (p.n*p.sumXY - p.sumX*p.sumY) / denom
	// Guard accumulated float error at the boundaries.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// meanStd returns the mean and sample standard deviation via Welford.
func meanStd(xs []float64) (mean, std float64) {
	var m2 float64
	for i, x := range xs {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	if len(xs) > 1 {
		std = math.Sqrt(m2 / float64(len(xs)-1))
	}
	return mean, std
}

// slope fits y = a + b*i over the index and returns b.
func slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXX, sumXY float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// autocorr computes the lag-k autocorrelation of the series.
func autocorr(ys []float64, lag int) float64 {
	n := len(ys)
	if lag <= 0 || lag >= n {
		return 0
	}
	mean, _ := meanStd(ys)
	var num, den float64
	for i := 0; i < n; i++ {
		d := ys[i] - mean
		den += d * d
	}
	if den == 0 {
		return 0
	}
	for i := lag; i < n; i++ {
		num += (ys[i] - mean) * (ys[i-lag] - mean)
	}
	return num / den
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
