package extract

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
)

func newDefault(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultVocabulary())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func assertRecord(t *testing.T, got, want contact.Record) {
	t.Helper()
	for _, f := range contact.Fields {
		if got.Get(f) != want.Get(f) {
			t.Errorf("%s = %q, want %q", f, got.Get(f), want.Get(f))
		}
	}
}

func TestClassify_NameCompanyPhoneEmail(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Jane Smith", "ACME CORP", "Tel: +1 415 555 0100", "jane@acme.com"})

	assertRecord(t, rec, contact.Record{
		Name:    "Jane Smith",
		Company: "ACME CORP",
		Phone:   "+1 415 555 0100",
		Email:   "jane@acme.com",
	})
}

func TestClassify_CompanyKeywordBeatsUppercase(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"ACME GROUP", "Sales Director", "jane@acme.com"})

	assertRecord(t, rec, contact.Record{
		Company:  "ACME GROUP",
		Position: "Sales Director",
		Email:    "jane@acme.com",
	})
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newDefault(t)
	if rec := c.Classify(nil); !rec.IsEmpty() {
		t.Errorf("nil input: got %+v", rec)
	}
	if rec := c.Classify([]string{}); !rec.IsEmpty() {
		t.Errorf("empty input: got %+v", rec)
	}
	if rec := c.Classify([]string{"", "   "}); !rec.IsEmpty() {
		t.Errorf("blank lines: got %+v", rec)
	}
}

func TestClassify_CompanyNextToName(t *testing.T) {
	c := newDefault(t)
	rec := c.ClassifyText(`
    Nombre Apellido
    Empresa Ejemplo
    Tel: +34 600 123 456
    Email: ejemplo@empresa.com
  `)

	assertRecord(t, rec, contact.Record{
		Name:    "Nombre Apellido",
		Company: "Empresa Ejemplo",
		Phone:   "+34 600 123 456",
		Email:   "ejemplo@empresa.com",
	})
}

func TestClassify_CompanyBeforeName(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Northwind", "Maria Lopez", "maria@northwind.io"})

	if rec.Company != "Northwind" {
		t.Errorf("company = %q, want Northwind", rec.Company)
	}
	if rec.Name != "Maria Lopez" {
		t.Errorf("name = %q, want Maria Lopez", rec.Name)
	}
	if rec.Website != "" {
		t.Errorf("website = %q, e-mail domain must not become a website", rec.Website)
	}
}

func TestClassify_ProximityRespectsMaxLen(t *testing.T) {
	c := newDefault(t)
	lines := []string{"the best widgets money can buy since forever", "Maria Lopez"}

	if rec := c.Classify(lines); rec.Company != "" {
		t.Errorf("company = %q, want empty for a long neighbour", rec.Company)
	}

	c = newDefault(t).WithProximityMaxLen(100)
	if rec := c.Classify(lines); rec.Company != lines[0] {
		t.Errorf("company = %q, want %q with a larger limit", rec.Company, lines[0])
	}
}

func TestClassify_UppercaseFallbackPicksLongest(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Maria Lopez", "NORTHWIND", "SOUTHWIND TRADERS"})

	if rec.Company != "SOUTHWIND TRADERS" {
		t.Errorf("company = %q, want SOUTHWIND TRADERS", rec.Company)
	}
	if rec.Name != "Maria Lopez" {
		t.Errorf("name = %q", rec.Name)
	}
}

func TestClassify_CompanyTieGoesToFirstLine(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"ALPHA LTD", "BRAVO LTD"})
	if rec.Company != "ALPHA LTD" {
		t.Errorf("company = %q, want ALPHA LTD", rec.Company)
	}

	rec = c.Classify([]string{"ACME LTD", "ACME HOLDINGS LTD"})
	if rec.Company != "ACME HOLDINGS LTD" {
		t.Errorf("company = %q, want the longer legal name", rec.Company)
	}
}

func TestClassify_PositionBeforeCompany(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Engineering Director", "Ana Ruiz"})

	if rec.Position != "Engineering Director" {
		t.Errorf("position = %q", rec.Position)
	}
	if rec.Company != "" {
		t.Errorf("company = %q, a line claimed as position must not be reused", rec.Company)
	}
	if rec.Name != "Ana Ruiz" {
		t.Errorf("name = %q", rec.Name)
	}
}

func TestClassify_KeywordsMatchWholeWords(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Smith Engineering", "Ana Ruiz"})

	if rec.Position != "" {
		t.Errorf("position = %q, engineer must not match Engineering", rec.Position)
	}
	if rec.Company != "Smith Engineering" {
		t.Errorf("company = %q", rec.Company)
	}
}

func TestClassify_Website(t *testing.T) {
	c := newDefault(t)

	rec := c.Classify([]string{"John Doe", "www.example.com"})
	if rec.Website != "https://www.example.com" {
		t.Errorf("website = %q", rec.Website)
	}
	if rec.Company != "" {
		t.Errorf("company = %q, contact lines are not company candidates", rec.Company)
	}

	rec = c.Classify([]string{"Visit http://example.org/about."})
	if rec.Website != "http://example.org/about" {
		t.Errorf("schemed website = %q", rec.Website)
	}
}

func TestClassify_OneFieldPerContactLine(t *testing.T) {
	c := newDefault(t)

	rec := c.Classify([]string{"jane@acme.com +1 415 555 0100"})
	if rec.Email != "jane@acme.com" || rec.Phone != "" {
		t.Errorf("got email=%q phone=%q, want e-mail only", rec.Email, rec.Phone)
	}

	rec = c.Classify([]string{"+1 415 555 0100", "+1 415 555 0199"})
	if rec.Phone != "+1 415 555 0100" {
		t.Errorf("phone = %q, want first match", rec.Phone)
	}
	if rec.Company != "" || rec.Name != "" {
		t.Errorf("second phone line leaked into %+v", rec)
	}
}

func TestClassify_PhoneShapes(t *testing.T) {
	c := newDefault(t)
	tests := []struct {
		line string
		want string
	}{
		{"Tel: +1 (415) 555-0100", "+1 (415) 555-0100"},
		{"(415) 555.0100", "(415) 555.0100"},
		{"Mobile 600123456", "600123456"},
		{"Ext 1234", ""},
		{"Suite 12-34", ""},
	}
	for _, tc := range tests {
		rec := c.Classify([]string{tc.line})
		if rec.Phone != tc.want {
			t.Errorf("Classify(%q).Phone = %q, want %q", tc.line, rec.Phone, tc.want)
		}
	}
}

func TestClassify_NameShape(t *testing.T) {
	c := newDefault(t)
	tests := []struct {
		lines []string
		want  string
	}{
		{[]string{"Dr. Jane Smith"}, "Dr. Jane Smith"},
		{[]string{"Jean-Luc Picard"}, "Jean-Luc Picard"},
		{[]string{"Juan de la Cruz"}, "Juan de la Cruz"},
		{[]string{"jane smith"}, ""},
		{[]string{"Jane"}, ""},
		{[]string{"Jane Alice Mary Ann Smith"}, ""},
		{[]string{"McDonald Farms"}, ""},
	}
	for _, tc := range tests {
		rec := c.Classify(tc.lines)
		if rec.Name != tc.want {
			t.Errorf("Classify(%q).Name = %q, want %q", tc.lines, rec.Name, tc.want)
		}
	}
}

func TestClassify_UppercaseNameIsCompany(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"JANE SMITH"})
	if rec.Name != "" {
		t.Errorf("name = %q, upper-case lines are not names", rec.Name)
	}
	if rec.Company != "JANE SMITH" {
		t.Errorf("company = %q", rec.Company)
	}
}

func TestClassify_CustomVocabulary(t *testing.T) {
	lines := []string{"Ship Captain", "Ocean Fleet"}

	rec := newDefault(t).Classify(lines)
	if rec.Name != "Ship Captain" || rec.Company != "Ocean Fleet" {
		t.Fatalf("default vocabulary: got %+v", rec)
	}

	c, err := New(Vocabulary{"captain": contact.FieldPosition, "fleet": contact.FieldCompany})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec = c.Classify(lines)
	if rec.Position != "Ship Captain" {
		t.Errorf("position = %q", rec.Position)
	}
	if rec.Company != "Ocean Fleet" {
		t.Errorf("company = %q", rec.Company)
	}
	if rec.Name != "" {
		t.Errorf("name = %q", rec.Name)
	}
}

func TestClassify_NeverPopulatesNotes(t *testing.T) {
	c := newDefault(t)
	rec := c.Classify([]string{"Jane Smith", "Met at the expo, follow up next week"})
	if rec.Notes != "" {
		t.Errorf("notes = %q", rec.Notes)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := newDefault(t)
	lines := []string{"ACME GROUP", "Jane Smith", "Sales Director", "+1 415 555 0100", "jane@acme.com", "acme.com"}

	first := c.Classify(lines)
	second := c.Classify(lines)
	if first != second {
		t.Errorf("Classify not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassify_FieldsComeFromInput(t *testing.T) {
	c := newDefault(t)
	inputs := [][]string{
		{"Jane Smith", "ACME CORP", "Tel: +1 415 555 0100", "jane@acme.com"},
		{"ACME GROUP", "Sales Director", "jane@acme.com", "www.acme.com"},
		{"Northwind", "Maria Lopez", "Fax (415) 555-0100", "https://northwind.io/team"},
		{"SOUTHWIND TRADERS S.L.", "Gerente Comercial", "Luis Pérez Gómez", "luis@southwind.es"},
		{"random text", "12", "@@", "ALL CAPS LINE", "Two Words"},
	}

	for _, lines := range inputs {
		rec := c.Classify(lines)
		joined := strings.Join(lines, "\n")
		for _, f := range contact.Fields {
			v := rec.Get(f)
			if v == "" {
				continue
			}
			if f == contact.FieldWebsite && !strings.Contains(joined, v) {
				v = strings.TrimPrefix(v, "https://")
			}
			if !strings.Contains(joined, v) {
				t.Errorf("%s = %q is not drawn from %q", f, rec.Get(f), lines)
			}
		}
	}
}

func TestNew_RejectsUnsupportedField(t *testing.T) {
	_, err := New(Vocabulary{"ceo": contact.FieldName})
	if err == nil {
		t.Fatal("expected error for keyword mapped to name")
	}
	if !strings.Contains(err.Error(), "unsupported field") {
		t.Errorf("error = %q", err)
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew(Vocabulary{" ": contact.FieldCompany})
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("  Jane Smith \r\n\r\n\tACME CORP\n   \n")
	want := []string{"Jane Smith", "ACME CORP"}
	if len(got) != len(want) {
		t.Fatalf("SplitLines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if len(SplitLines("")) != 0 {
		t.Error("empty text should produce no lines")
	}
}
