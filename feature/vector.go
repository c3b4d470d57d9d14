package feature

import "math"

// Vector 是稀疏特征向量：Indices 严格升序，与 Values 一一对应。
//
// 用有序切片而不用 map 存维度：遍历顺序固定之后，
// 点积的浮点累加顺序在任意两次调用间完全一致，
// 同一份目录算出的相似度逐位相等（复现性约束）。
type Vector struct {
	Indices []int32
	Values  []float64
}

// Append 追加一个维度，调用方保证 idx 大于已有所有索引。
func (v *Vector) Append(idx int32, val float64) {
	v.Indices = append(v.Indices, idx)
	v.Values = append(v.Values, val)
}

// NNZ 返回非零维度个数（含显式写入的 0）。
func (v *Vector) NNZ() int { return len(v.Indices) }

// Dot 计算两个稀疏向量的点积，归并游走，不产生临时 map。
func (v *Vector) Dot(o *Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm 返回 L2 范数。
func (v *Vector) Norm() float64 {
	var sum float64
	for _, val := range v.Values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Scale 对所有值乘以系数，就地修改。
func (v *Vector) Scale(f float64) {
	for i := range v.Values {
		v.Values[i] *= f
	}
}

// Cosine 返回两个向量的余弦相似度，任一方为零向量时返回 0。
func Cosine(a, b *Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// Matrix 是按目录顺序对齐的特征矩阵：Rows[i] 对应第 i 本书。
type Matrix struct {
	Rows []Vector
	Cols int
}

// Row 返回第 i 行；越界返回 nil。
func (m *Matrix) Row(i int) *Vector {
	if m == nil || i < 0 || i >= len(m.Rows) {
		return nil
	}
	return &m.Rows[i]
}

// Len 返回行数。
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Rows)
}
