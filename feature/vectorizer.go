package feature

import (
	"math"
	"sort"
)

// VectorizerConfig 是文本向量化的裁剪参数。
// 三个阈值是刻意的策略取值，不是实现巧合：出现太少的词项没有统计意义，
// 出现太广的词项没有区分度，词表上限约束单次请求的内存。
type VectorizerConfig struct {
	// MinDocFreq：词项至少要出现在这么多篇文档里才保留。
	MinDocFreq int
	// MaxDocRatio：词项出现的文档占比超过该值即剔除（0 < r <= 1）。
	MaxDocRatio float64
	// MaxFeatures：词表上限；超出时按全库词频降序、词项字典序升序截断。
	MaxFeatures int
	// Bigrams：是否在 unigram 之外纳入相邻词对。
	Bigrams bool
}

// DefaultVectorizerConfig 返回线上默认值。
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MinDocFreq:  2,
		MaxDocRatio: 0.8,
		MaxFeatures: 5000,
		Bigrams:     true,
	}
}

// Vectorizer 对一批文档做 TF-IDF 向量化。
//
// 口径约定（与常见特征平台对齐，改动会破坏相似度几何，谨慎）：
//   - TF 取原始词频
//   - IDF = ln((1+N)/(1+df)) + 1（平滑，永不为零）
//   - 每行 L2 归一化
//   - 词表按字典序编号，行内索引升序
//
// Vectorizer 不保留拟合状态：每次 FitTransform 都对传入的语料从零重建词表。
// 复用旧词表对新目录向量化会产生错误的相似度几何，这里从接口上杜绝。
type Vectorizer struct {
	cfg      VectorizerConfig
	analyzer Analyzer
}

// NewVectorizer 创建向量化器。非法阈值回落到默认值。
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	def := DefaultVectorizerConfig()
	if cfg.MinDocFreq < 1 {
		cfg.MinDocFreq = def.MinDocFreq
	}
	if cfg.MaxDocRatio <= 0 || cfg.MaxDocRatio > 1 {
		cfg.MaxDocRatio = def.MaxDocRatio
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = def.MaxFeatures
	}
	return &Vectorizer{
		cfg:      cfg,
		analyzer: Analyzer{Bigrams: cfg.Bigrams},
	}
}

// FitTransform 在 docs 上拟合词表并返回 TF-IDF 矩阵与词表（字典序）。
// 空语料、或裁剪后词表为空时，返回零列矩阵，行数仍与 docs 对齐。
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, []string) {
	n := len(docs)
	m := &Matrix{Rows: make([]Vector, n)}
	if n == 0 {
		return m, nil
	}

	// 1. 分词 + 词频统计
	counts := make([]map[string]int, n)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range v.analyzer.Terms(doc) {
			c[term]++
		}
		counts[i] = c
		for term, cnt := range c {
			docFreq[term]++
			totalFreq[term] += cnt
		}
	}

	// 2. 文档频率裁剪
	maxDoc := v.cfg.MaxDocRatio * float64(n)
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < v.cfg.MinDocFreq || float64(df) > maxDoc {
			continue
		}
		kept = append(kept, term)
	}

	// 3. 词表截断：全库词频降序，同频按字典序
	if len(kept) > v.cfg.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			fi, fj := totalFreq[kept[i]], totalFreq[kept[j]]
			if fi != fj {
				return fi > fj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.cfg.MaxFeatures]
	}

	// 4. 编号：字典序决定列号，与语料输入顺序无关
	sort.Strings(kept)
	vocab := make(map[string]int32, len(kept))
	for i, term := range kept {
		vocab[term] = int32(i)
	}
	m.Cols = len(kept)
	if m.Cols == 0 {
		return m, nil
	}

	// 5. IDF（平滑）
	idf := make([]float64, len(kept))
	for i, term := range kept {
		idf[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	// 6. 逐行写出：索引升序 + L2 归一化
	for i, c := range counts {
		row := &m.Rows[i]
		idxs := make([]int32, 0, len(c))
		for term := range c {
			if idx, ok := vocab[term]; ok {
				idxs = append(idxs, idx)
			}
		}
		sort.Slice(idxs, func(a, b int) bool { return idxs[a] < idxs[b] })
		for _, idx := range idxs {
			row.Append(idx, float64(c[kept[idx]])*idf[idx])
		}
		if norm := row.Norm(); norm > 0 {
			row.Scale(1 / norm)
		}
	}
	return m, kept
}
