package linguist

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var osGetenv = os.Getenv

// UserLanguages returns the user's preferred languages from the
// environment, most preferred first: LANGUAGE (a colon separated list),
// then LC_ALL, LC_MESSAGES and LANG, the first one set winning.
func UserLanguages() []string {
	if langs := osGetenv("LANGUAGE"); langs != "" {
		return lo.Filter(strings.Split(langs, ":"), func(s string, _ int) bool { return s != "" })
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if lang := osGetenv(name); lang != "" {
			return []string{lang}
		}
	}
	return nil
}

// normalizeLanguages expands each language to its fallbacks and removes
// duplicates. The "C" locale ends the list.
func normalizeLanguages(languages []string) []string {
	var out []string
	for _, lang := range languages {
		if lang == "C" || lang == "POSIX" {
			break
		}
		out = append(out, expandLocale(aliasLocale(lang))...)
	}
	if len(out) == 0 {
		return nil
	}
	return lo.Uniq(out)
}

// splitLocale breaks language[_territory][.codeset][@modifier] apart. The
// separators are kept on the parts.
func splitLocale(locale string) (lang, territory, codeset, modifier string) {
	lang = locale
	if i := strings.IndexByte(lang, '@'); i >= 0 {
		lang, modifier = lang[:i], lang[i:]
	}
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		lang, codeset = lang[:i], lang[i:]
	}
	if i := strings.IndexByte(lang, '_'); i >= 0 {
		lang, territory = lang[:i], lang[i:]
	}
	return lang, territory, codeset, modifier
}

// expandLocale lists the names a catalog for locale may be stored under,
// most specific first.
func expandLocale(locale string) []string {
	lang, territory, codeset, modifier := splitLocale(locale)

	codesets := []string{codeset}
	if codeset != "" {
		codesets = append(codesets, normalizeCodeset(codeset), "")
	}
	territories := []string{territory}
	if territory != "" {
		territories = append(territories, "")
	}
	modifiers := []string{modifier}
	if modifier != "" {
		modifiers = append(modifiers, "")
	}

	var out []string
	for _, m := range modifiers {
		for _, t := range territories {
			for _, c := range codesets {
				out = append(out, lang+t+c+m)
			}
		}
	}
	return lo.Uniq(out)
}

// normalizeCodeset lowercases a ".codeset" suffix and drops punctuation,
// so ".UTF-8" becomes ".utf8". Purely numeric codesets are taken to be ISO
// ones: ".8859-1" becomes ".iso88591".
func normalizeCodeset(codeset string) string {
	var b strings.Builder
	digits := true
	for _, r := range strings.TrimPrefix(codeset, ".") {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsLetter(r):
			digits = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if digits {
		return ".iso" + b.String()
	}
	return "." + b.String()
}

var localeAliasPath = "/usr/share/locale/locale.alias"

// aliasLocale resolves names such as "swedish" through the system locale
// alias table.
func aliasLocale(lang string) string {
	if strings.ContainsAny(lang, "_.@") {
		return lang
	}
	f, err := os.Open(localeAliasPath)
	if err != nil {
		return lang
	}
	defer f.Close()
	aliases, err := parseLocaleAlias(f)
	if err != nil {
		return lang
	}
	if alias, ok := aliases[strings.ToLower(lang)]; ok {
		return alias
	}
	return lang
}

// parseLocaleAlias reads a locale.alias file: "alias locale" pairs, one
// per line, with # comments.
func parseLocaleAlias(r io.Reader) (map[string]string, error) {
	aliases := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		aliases[strings.ToLower(fields[0])] = fields[1]
	}
	return aliases, scanner.Err()
}
