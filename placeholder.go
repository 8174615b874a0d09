package linguist

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Substitute replaces the positional markers %1 to %99 in template with the
// string form of the corresponding argument. Markers without a matching
// argument are kept verbatim, so Substitute("%3", a) returns "%3".
//
// Each marker is replaced independently of the others, so a translation may
// use the markers in any order: Substitute("%2 / %1", a, b) yields "b / a".
func Substitute(template string, args ...any) string {
	return substitute(template, language.Und, nil, args)
}

// substitute is the single scan behind Substitute. It additionally expands
// %n to *count when count is non-nil, and formats the %L forms of both
// markers with the number conventions of tag.
func substitute(template string, tag language.Tag, count *int, args []any) string {
	if strings.IndexByte(template, '%') < 0 {
		return template
	}

	var (
		b       strings.Builder
		printer *message.Printer
	)
	format := func(v any, localized bool) string {
		if !localized || tag == language.Und || !isNumber(v) {
			return fmt.Sprint(v)
		}
		if printer == nil {
			printer = message.NewPrinter(tag)
		}
		return printer.Sprint(v)
	}

	b.Grow(len(template))
	for i := 0; i < len(template); {
		if template[i] != '%' {
			b.WriteByte(template[i])
			i++
			continue
		}
		j := i + 1
		localized := j < len(template) && template[j] == 'L'
		if localized {
			j++
		}
		if j < len(template) && template[j] == 'n' && count != nil {
			b.WriteString(format(*count, localized))
			i = j + 1
			continue
		}
		k := j
		for k < len(template) && k-j < 2 && template[k] >= '0' && template[k] <= '9' {
			k++
		}
		if k == j {
			b.WriteByte('%')
			i++
			continue
		}
		idx := int(template[j] - '0')
		if k-j == 2 {
			idx = idx*10 + int(template[j+1]-'0')
		}
		if idx >= 1 && idx <= len(args) {
			b.WriteString(format(args[idx-1], localized))
		} else {
			b.WriteString(template[i:k])
		}
		i = k
	}
	return b.String()
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
