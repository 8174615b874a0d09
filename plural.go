package linguist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/snapcore/go-linguist/pluralforms"
)

// PluralRule maps a count to one of Forms plural form indices.
type PluralRule struct {
	Forms int

	src  string
	expr pluralforms.Expression
}

// NewPluralRule compiles a C plural expression such as "n != 1" selecting
// among forms plural forms.
func NewPluralRule(forms int, expr string) (*PluralRule, error) {
	if forms < 1 {
		return nil, fmt.Errorf("invalid plural form count %d", forms)
	}
	e, err := pluralforms.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &PluralRule{Forms: forms, src: strings.TrimSpace(expr), expr: e}, nil
}

// ParsePluralForms parses a gettext Plural-Forms header value such as
// "nplurals=2; plural=(n != 1);".
func ParsePluralForms(header string) (*PluralRule, error) {
	var nplurals, plural string
	for _, part := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "nplurals":
			nplurals = strings.TrimSpace(v)
		case "plural":
			plural = strings.TrimSpace(v)
		}
	}
	if nplurals == "" || plural == "" {
		return nil, fmt.Errorf("malformed plural forms header %q", header)
	}
	forms, err := strconv.Atoi(nplurals)
	if err != nil {
		return nil, fmt.Errorf("malformed plural forms header %q: %w", header, err)
	}
	return NewPluralRule(forms, plural)
}

// Index returns the plural form index for n, always within [0, Forms).
func (r *PluralRule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	if int64(n) > math.MaxUint32 {
		// keep the low decimal digits the rules look at
		n = n%1000000 + 1000000
	}
	i := r.expr.Eval(uint32(n))
	if i < 0 {
		return 0
	}
	if i >= r.Forms {
		return r.Forms - 1
	}
	return i
}

func (r *PluralRule) String() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.Forms, r.src)
}

const (
	pluralOne      = "0"
	pluralGermanic = "n != 1"
	pluralFrench   = "n > 1"
	pluralSlavic   = "n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2"
	pluralCzech    = "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2"
)

var pluralTable = []struct {
	forms   int
	expr    string
	locales []string
}{
	{1, pluralOne, []string{"ja", "zh", "ko", "vi", "th", "id", "ms", "lo", "km", "my", "jv"}},
	{2, pluralGermanic, []string{
		"en", "de", "nl", "sv", "da", "nb", "nn", "no", "fi", "et", "it", "es", "pt", "el",
		"hu", "bg", "eu", "ca", "gl", "af", "eo", "tr", "he", "fy", "az", "ka", "kk", "sq",
		"hi", "bn", "ta", "te", "ur", "sw", "fo", "fur", "nds",
	}},
	{2, pluralFrench, []string{"fr", "pt-BR", "oc", "br", "fil", "ln", "wa"}},
	{2, "n%10!=1 || n%100==11", []string{"is"}},
	{2, "n==1 || n%10==1 ? 0 : 1", []string{"mk"}},
	{3, pluralSlavic, []string{"ru", "uk", "be", "hr", "sr", "bs"}},
	{3, "n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", []string{"pl"}},
	{3, pluralCzech, []string{"cs", "sk"}},
	{3, "n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2", []string{"lt"}},
	{3, "n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2", []string{"lv"}},
	{3, "n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2", []string{"ro"}},
	{4, "n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3", []string{"sl"}},
	{4, "(n==1) ? 0 : (n==2) ? 1 : (n != 8 && n != 11) ? 2 : 3", []string{"cy"}},
	{5, "n==1 ? 0 : n==2 ? 1 : (n>2 && n<7) ? 2 : (n>6 && n<11) ? 3 : 4", []string{"ga"}},
	{6, "n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5", []string{"ar"}},
}

// pluralRules is built once and never modified afterwards.
var pluralRules = func() map[string]*PluralRule {
	rules := make(map[string]*PluralRule)
	for _, row := range pluralTable {
		rule, err := NewPluralRule(row.forms, row.expr)
		if err != nil {
			panic(fmt.Sprintf("internal error: bad plural rule %q: %v", row.expr, err))
		}
		for _, loc := range row.locales {
			rules[loc] = rule
		}
	}
	return rules
}()

// parseLocale accepts POSIX ("pt_BR.UTF-8@euro") and BCP 47 ("pt-BR") names.
func parseLocale(locale string) (language.Tag, error) {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return tag, nil
}

// LookupPluralRule returns the built-in rule for locale. The most specific
// entry wins, so "pt_BR" and "pt" select different rules.
func LookupPluralRule(locale string) (*PluralRule, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return nil, err
	}
	return lookupPluralRule(tag)
}

func lookupPluralRule(tag language.Tag) (*PluralRule, error) {
	base, _ := tag.Base()
	candidates := make([]string, 0, 2)
	// Region guesses would map plain "pt" to "pt-BR".
	if region, conf := tag.Region(); conf == language.Exact {
		candidates = append(candidates, base.String()+"-"+region.String())
	}
	candidates = append(candidates, base.String())
	for _, c := range candidates {
		if rule, ok := pluralRules[c]; ok {
			return rule, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, tag)
}

// FormIndex returns the plural form index selected for count n in locale.
// It returns ErrUnknownLocale rather than guessing.
func FormIndex(locale string, n int) (int, error) {
	rule, err := LookupPluralRule(locale)
	if err != nil {
		return 0, err
	}
	return rule.Index(n), nil
}

// FormCount returns the number of plural forms declared for locale.
func FormCount(locale string) (int, error) {
	rule, err := LookupPluralRule(locale)
	if err != nil {
		return 0, err
	}
	return rule.Forms, nil
}
