package text

import (
	"regexp"
	"unicode/utf8"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9а-яё-]+`)

// stopwords are connectives, generic descriptors and condition words that
// appear in almost every listing title and carry no matching signal.
var stopwords = map[string]struct{}{
	"и": {}, "или": {}, "а": {}, "для": {}, "с": {}, "на": {}, "в": {},
	"из": {}, "к": {}, "по": {}, "без": {}, "до": {}, "от": {}, "что": {},
	"гб": {}, "тб": {}, "gb": {}, "tb": {},
	"цвет": {}, "белый": {}, "черный": {}, "серый": {}, "серебристый": {}, "красный": {},
	"новый": {}, "бу": {}, "есть": {}, "нет": {}, "про": {},
	"встроенный": {}, "версия": {},
}

// Tokenize derives the required match tokens for one catalog row. Brand and
// model text are concatenated, normalized and split into maximal runs of
// letters, digits and hyphen; single-character tokens and stop-words are
// dropped and duplicates removed in first-seen order.
func Tokenize(brand, model string) []string {
	full := Normalize(brand + " " + model)

	seen := make(map[string]struct{})
	var tokens []string
	for _, token := range tokenPattern.FindAllString(full, -1) {
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		if _, ok := stopwords[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
