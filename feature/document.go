package feature

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rushteam/bookrec/core"
)

// Document 把一本书的文本字段拼成一篇文档：标题、作者、简介、类目。
// 缺失字段按空串处理，多余空白由分词器吸收。
func Document(b *core.Book) string {
	return b.Title + " " + b.Author + " " + b.Description + " " + b.Genres
}

// Analyzer 把原始文本切成词项流：小写、去重音、按非词字符切分。
//
// 规则：
//   - 词字符 = Unicode 字母 / 数字 / 下划线，其余一律视为分隔符
//   - 长度不足 2 个 rune 的 token 丢弃（单字符几乎全是噪声）
//   - Bigrams 开启时在 unigram 之外追加相邻词对，以空格连接
//
// 去重音走 NFD 分解后剥离组合符号再 NFC 合成，
// "Café" 与 "cafe" 因此落进同一维度，书名录入口径不一时不至于错失相似。
type Analyzer struct {
	Bigrams bool
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokens 返回文档的 unigram 序列（保持出现顺序，可重复）。
func (a Analyzer) Tokens(text string) []string {
	folded := foldAccents(strings.ToLower(text))
	var tokens []string
	var b strings.Builder
	runeCount := 0
	flush := func() {
		if runeCount >= 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		runeCount = 0
	}
	for _, r := range folded {
		if isWordRune(r) {
			b.WriteRune(r)
			runeCount++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// Terms 返回参与统计的全部词项：unigram，以及开启时的相邻 bigram。
func (a Analyzer) Terms(text string) []string {
	tokens := a.Tokens(text)
	if !a.Bigrams || len(tokens) < 2 {
		return tokens
	}
	terms := make([]string, 0, len(tokens)*2-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
