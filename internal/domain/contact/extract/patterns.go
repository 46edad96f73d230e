package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minPhoneDigits is the shortest digit run accepted as a phone number.
const minPhoneDigits = 8

var (
	emailRegex   = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	phoneRegex   = regexp.MustCompile(`\+?\(?\d[\d\s.\-()]*\d`)
	websiteRegex = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,24}(?::\d+)?(?:/\S*)?`)
	schemeRegex  = regexp.MustCompile(`(?i)^https?://`)
)

// matchEmail returns the first e-mail address in line, as written.
func matchEmail(line string) string {
	return emailRegex.FindString(line)
}

// matchPhone returns the first run that looks like a phone number.
func matchPhone(line string) string {
	for _, m := range phoneRegex.FindAllString(line, -1) {
		if countDigits(m) >= minPhoneDigits {
			return m
		}
	}
	return ""
}

// matchWebsite returns the first URL-like token that is not part of an e-mail address.
func matchWebsite(line string) string {
	for _, loc := range websiteRegex.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:start])
			if prev == '@' || prev == '.' || prev == '_' || prev == '-' || isWordRune(prev) {
				continue
			}
		}
		if end < len(line) {
			next, _ := utf8.DecodeRuneInString(line[end:])
			if next == '@' || isWordRune(next) {
				continue
			}
		}
		m := strings.TrimRight(line[start:end], ".,;:)]}>\"'")
		if m != "" {
			return m
		}
	}
	return ""
}

// normalizeWebsite prefixes https:// when the URL has no scheme.
func normalizeWebsite(u string) string {
	if u == "" || schemeRegex.MatchString(u) {
		return u
	}
	return "https://" + u
}

// containsKeyword reports whether lower holds any keyword as a whole word.
func containsKeyword(lower string, keywords []string) bool {
	for _, k := range keywords {
		if hasWord(lower, k) {
			return true
		}
	}
	return false
}

// hasWord reports whether word occurs in s without letters or digits on either side.
func hasWord(s, word string) bool {
	if word == "" {
		return false
	}
	offset := 0
	for {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		before := start == 0
		if !before {
			r, _ := utf8.DecodeLastRuneInString(s[:start])
			before = !isWordRune(r)
		}
		after := end == len(s)
		if !after {
			r, _ := utf8.DecodeRuneInString(s[end:])
			after = !isWordRune(r)
		}
		if before && after {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// isAllUpper reports whether s has at least one letter and no lower-case letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleWord reports whether w starts with an upper-case letter and the rest of its
// letters are lower-case. A letter after '-' or '\'' may be upper-case (Jean-Luc, O'Neil).
func isTitleWord(w string) bool {
	first := true
	afterJoin := false
	for _, r := range w {
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		switch {
		case r == '-' || r == '\'' || r == '’':
			afterJoin = true
		case unicode.IsLetter(r):
			if unicode.IsUpper(r) && !afterJoin {
				return false
			}
			afterJoin = false
		}
	}
	return !first
}
