package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
)

// Vocabulary maps lower-case keywords to the field they indicate.
// Only contact.FieldPosition and contact.FieldCompany are meaningful.
type Vocabulary map[string]contact.Field

var defaultPositionKeywords = []string{
	// English
	"ceo", "cto", "cfo", "coo", "cmo", "vp", "vice president", "president",
	"director", "manager", "founder", "co-founder", "cofounder", "owner", "partner",
	"engineer", "developer", "consultant", "architect", "designer", "analyst",
	"specialist", "officer", "head of", "lead", "executive", "coordinator",
	"advisor", "adviser", "assistant", "representative",
	"chairman", "secretary", "accountant", "lawyer", "attorney", "agent",
	// Spanish
	"directora", "gerente", "fundador", "fundadora", "socio", "socia",
	"ingeniero", "ingeniera", "consultor", "consultora", "arquitecto", "arquitecta",
	"jefe", "jefa", "responsable", "comercial", "asesor", "asesora", "abogado",
	"abogada", "administrador", "administradora", "presidente", "presidenta",
	"técnico", "técnica", "coordinador", "coordinadora", "delegado", "delegada",
}

var defaultCompanyKeywords = []string{
	// Legal entity suffixes
	"inc", "inc.", "llc", "ltd", "ltd.", "limited", "corp", "corp.", "corporation",
	"co.", "company", "gmbh", "ag", "plc", "s.a.", "s.l.", "s.l.u.", "sl", "sa",
	"s.a.s.", "srl", "s.r.l.", "bv", "b.v.", "nv", "oy", "ab", "pty",
	// Industry indicators
	"group", "grupo", "holding", "holdings", "architects", "arquitectos",
	"engineering", "ingeniería", "construction", "construcciones", "consulting",
	"consultores", "solutions", "soluciones", "systems", "sistemas", "services",
	"servicios", "technologies", "tecnologías", "labs", "studio", "estudio",
	"partners", "associates", "asociados", "industries", "industrias", "agency",
	"agencia", "bank", "banco", "foundation", "fundación", "university",
	"universidad", "hotel", "clinic", "clínica",
}

// DefaultVocabulary returns the built-in English and Spanish keyword table.
// Position wins when a keyword appears in both lists.
func DefaultVocabulary() Vocabulary {
	v := make(Vocabulary, len(defaultPositionKeywords)+len(defaultCompanyKeywords))
	for _, k := range defaultCompanyKeywords {
		v[k] = contact.FieldCompany
	}
	for _, k := range defaultPositionKeywords {
		v[k] = contact.FieldPosition
	}
	return v
}

// Validate checks that every keyword is non-empty and maps to a supported field.
func (v Vocabulary) Validate() error {
	for k, f := range v {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("vocabulary: empty keyword")
		}
		if f != contact.FieldPosition && f != contact.FieldCompany {
			return fmt.Errorf("vocabulary: keyword %q maps to unsupported field %q", k, f)
		}
	}
	return nil
}

// Keywords returns the normalized keywords for a field, longest first. Keys that
// normalize to the same keyword collapse into one, and position wins over company.
func (v Vocabulary) Keywords(f contact.Field) []string {
	norm := make(map[string]contact.Field, len(v))
	for k, kf := range v {
		k = strings.ToLower(strings.TrimSpace(k))
		if norm[k] != contact.FieldPosition {
			norm[k] = kf
		}
	}
	var out []string
	for k, kf := range norm {
		if kf == f {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
