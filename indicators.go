package features

import "gonum.org/v1/gonum/stat"

const (
	// RollingWindow is the number of closes in the rolling mean and standard deviation.
	RollingWindow = 5
	// RSIWindow is the number of periods averaged by the relative strength index.
	RSIWindow = 14
	// RSIEpsilon is added to the average loss so that a series without losses has a finite RS.
	RSIEpsilon = 1e-9
)

func ptr(v float64) *float64 { return &v }

// trailing returns the last n values of xs, or nil if there are less than n.
func trailing(xs []float64, n int) []float64 {
	if n <= 0 || len(xs) < n {
		return nil
	}
	return xs[len(xs)-n:]
}

// rollingMean returns the mean of the last n values.
func rollingMean(xs []float64, n int) *float64 {
	w := trailing(xs, n)
	if w == nil {
		return nil
	}
	return ptr(stat.Mean(w, nil))
}

// rollingStd returns the sample standard deviation of the last n values.
func rollingStd(xs []float64, n int) *float64 {
	w := trailing(xs, n)
	if w == nil || n < 2 {
		return nil
	}
	return ptr(stat.StdDev(w, nil))
}

// rsi returns 100 - 100/(1+RS) where RS is the ratio of the average gain to
// the average loss over the last n periods.
func rsi(gains, losses []float64, n int) *float64 {
	g, l := trailing(gains, n), trailing(losses, n)
	if g == nil || l == nil {
		return nil
	}
	rs := stat.Mean(g, nil) / (stat.Mean(l, nil) + RSIEpsilon)
	return ptr(100 - 100/(1+rs))
}

// meanOf returns the mean of the non missing values, or nil if there is none.
func meanOf(values []*float64) *float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			xs = append(xs, *v)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	return ptr(stat.Mean(xs, nil))
}
