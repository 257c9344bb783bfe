package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputRunes 超出部分直接截断，保证分类耗时有上限
const MaxInputRunes = 20000

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all am an and any are as at be because been
		before being below between both but by can could did do does doing down during
		each few for from further had has have having he her here hers herself him himself
		his how if in into is it its itself just me more most my myself no nor not now of
		off on once only or other our ours ourselves out over own same she should so some
		such than that the their theirs them themselves then there these they this those
		through to too under until up very was we were what when where which while who whom
		why will with would you your yours yourself yourselves ll re ve
	`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// Tokenize 小写化、按字母数字切词，丢弃单字符词和停用词，最多返回 maxTokens 个词
func Tokenize(text string, maxTokens int) []string {
	if utf8.RuneCountInString(text) > MaxInputRunes {
		text = truncateRunes(text, MaxInputRunes)
	}

	var (
		tokens []string
		sb     strings.Builder
		runes  int
	)
	flush := func() bool {
		if runes >= 2 {
			tok := sb.String()
			if _, stop := stopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		sb.Reset()
		runes = 0
		return maxTokens > 0 && len(tokens) >= maxTokens
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(unicode.ToLower(r))
			runes++
			continue
		}
		if flush() {
			return tokens
		}
	}
	flush()
	return tokens
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
