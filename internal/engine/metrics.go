package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean 空输入返回 0
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return finite(stat.Mean(xs, nil))
}

// Variance 总体方差，空输入返回 0
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	v := stat.PopVariance(xs, nil)
	if v < 0 {
		return 0
	}
	return finite(v)
}

func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// TrendSlope 以下标 1..n 为自变量做最小二乘，n<2 时返回 0
func TrendSlope(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return finite(beta)
}

func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Normalize 将 x 按 [lo,hi] 线性映射到 [0,1]，区间退化时返回 0.5
func Normalize(x, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 0.5
	}
	return clamp01((x - lo) / (hi - lo))
}

// Median 偶数个元素时取中间两数的平均
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func scoresOf(records []LearningRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

func durationsOf(records []LearningRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.DurationSeconds)
	}
	return out
}

func lastN(records []LearningRecord, n int) []LearningRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

func firstN(records []LearningRecord, n int) []LearningRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
