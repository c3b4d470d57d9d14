package feature

import "math"

// StandardScaler 是单列的 z-score 标准化器：z = (x - μ) / σ。
// 在当前目录快照上拟合，均值变 0、方差变 1，
// 点赞数（可达千级）才不会单凭量纲压过评分（1–5）。
type StandardScaler struct {
	Mean float64
	Std  float64
}

// FitScaler 在一列取值上拟合标准化器（总体标准差）。
func FitScaler(values []float64) StandardScaler {
	n := len(values)
	if n == 0 {
		return StandardScaler{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return StandardScaler{
		Mean: mean,
		Std:  math.Sqrt(variance / float64(n)),
	}
}

// Transform 标准化单个值。
// 整列同值时 σ=0，没有可用的分布信息，该列整体置 0（等价于不参与相似度）。
func (s StandardScaler) Transform(v float64) float64 {
	if s.Std == 0 {
		return 0
	}
	return (v - s.Mean) / s.Std
}

// TransformAll 标准化整列。
func (s StandardScaler) TransformAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Transform(v)
	}
	return out
}
