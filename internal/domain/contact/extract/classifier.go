// Package extract turns the text lines of one OCR pass over a business card into a
// contact.Record.
//
// Stages run in a fixed order and each claims the line it assigns:
// e-mail/phone/website, position, company (keyword, then upper-case), name, and
// finally company by proximity to the name line. Position runs before company, so a
// line that holds both kinds of keyword becomes the position.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
)

// DefaultProximityMaxLen is the longest line (in runes) accepted as a company name
// when it is picked only for sitting next to the name line.
const DefaultProximityMaxLen = 40

// Classifier is safe for concurrent use once built.
type Classifier struct {
	positionKeywords []string
	companyKeywords  []string
	proximityMaxLen  int
}

// New creates a Classifier for the given keyword table.
func New(vocab Vocabulary) (*Classifier, error) {
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		positionKeywords: vocab.Keywords(contact.FieldPosition),
		companyKeywords:  vocab.Keywords(contact.FieldCompany),
		proximityMaxLen:  DefaultProximityMaxLen,
	}, nil
}

// MustNew is New that panics on an invalid vocabulary.
func MustNew(vocab Vocabulary) *Classifier {
	c, err := New(vocab)
	if err != nil {
		panic(fmt.Sprintf("extract: %v", err))
	}
	return c
}

// WithProximityMaxLen overrides DefaultProximityMaxLen.
func (c *Classifier) WithProximityMaxLen(n int) *Classifier {
	if n > 0 {
		c.proximityMaxLen = n
	}
	return c
}

// SplitLines splits an OCR text blob into trimmed, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(strings.TrimRight(l, "\r"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ClassifyText is Classify over SplitLines(text).
func (c *Classifier) ClassifyText(text string) contact.Record {
	return c.Classify(SplitLines(text))
}

// Classify maps lines to a record. Surrounding whitespace is dropped and blank
// entries are ignored. A nil or empty slice yields an empty record.
func (c *Classifier) Classify(lines []string) contact.Record {
	st := newState(lines)
	var rec contact.Record

	c.contactMethods(st, &rec)
	c.position(st, &rec)
	c.company(st, &rec)
	nameIdx := c.name(st, &rec)
	if rec.Company == "" && nameIdx >= 0 {
		c.companyNearName(st, &rec, nameIdx)
	}

	return rec
}

// state tracks which lines are already assigned while the stages run.
type state struct {
	lines       []string
	lower       []string
	claimed     []contact.Field
	contactLike []bool
}

func newState(lines []string) *state {
	st := &state{
		lines:       make([]string, len(lines)),
		lower:       make([]string, len(lines)),
		claimed:     make([]contact.Field, len(lines)),
		contactLike: make([]bool, len(lines)),
	}
	for i, l := range lines {
		st.lines[i] = strings.TrimSpace(l)
		st.lower[i] = strings.ToLower(st.lines[i])
	}
	return st
}

// free reports whether line i may still be assigned by a text-shape stage.
func (st *state) free(i int) bool {
	return st.lines[i] != "" && st.claimed[i] == "" && !st.contactLike[i]
}

func (st *state) claim(i int, f contact.Field) {
	st.claimed[i] = f
}

func (c *Classifier) contactMethods(st *state, rec *contact.Record) {
	for i, line := range st.lines {
		if line == "" {
			continue
		}
		email := matchEmail(line)
		phone := matchPhone(line)
		website := matchWebsite(line)
		if email != "" || phone != "" || website != "" {
			st.contactLike[i] = true
		}

		switch {
		case rec.Email == "" && email != "":
			rec.Email = email
			st.claim(i, contact.FieldEmail)
		case rec.Phone == "" && phone != "":
			rec.Phone = phone
			st.claim(i, contact.FieldPhone)
		case rec.Website == "" && website != "":
			rec.Website = normalizeWebsite(website)
			st.claim(i, contact.FieldWebsite)
		}
	}
}

func (c *Classifier) position(st *state, rec *contact.Record) {
	for i, line := range st.lines {
		if !st.free(i) {
			continue
		}
		if containsKeyword(st.lower[i], c.positionKeywords) {
			rec.Position = line
			st.claim(i, contact.FieldPosition)
			return
		}
	}
}

func (c *Classifier) company(st *state, rec *contact.Record) {
	idx := longestLine(st, func(i int) bool {
		return containsKeyword(st.lower[i], c.companyKeywords)
	})
	if idx < 0 {
		idx = longestLine(st, func(i int) bool {
			return isAllUpper(st.lines[i])
		})
	}
	if idx < 0 {
		return
	}
	rec.Company = st.lines[idx]
	st.claim(idx, contact.FieldCompany)
}

// longestLine returns the longest free line accepted by keep; ties go to the earlier line.
func longestLine(st *state, keep func(i int) bool) int {
	best, bestLen := -1, -1
	for i, line := range st.lines {
		if !st.free(i) || !keep(i) {
			continue
		}
		if n := utf8.RuneCountInString(line); n > bestLen {
			best, bestLen = i, n
		}
	}
	return best
}

func (c *Classifier) name(st *state, rec *contact.Record) int {
	for i, line := range st.lines {
		if !st.free(i) || isAllUpper(line) {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 || len(tokens) > 4 {
			continue
		}
		titled := 0
		for _, t := range tokens {
			if isTitleWord(t) {
				titled++
			}
		}
		if titled >= 2 {
			rec.Name = line
			st.claim(i, contact.FieldName)
			return i
		}
	}
	return -1
}

func (c *Classifier) companyNearName(st *state, rec *contact.Record, nameIdx int) {
	for _, i := range []int{nameIdx - 1, nameIdx + 1} {
		if i < 0 || i >= len(st.lines) || !st.free(i) {
			continue
		}
		if utf8.RuneCountInString(st.lines[i]) > c.proximityMaxLen {
			continue
		}
		rec.Company = st.lines[i]
		st.claim(i, contact.FieldCompany)
		return
	}
}
