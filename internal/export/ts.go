// Package export writes catalogs in the file formats translators work with.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/snapcore/go-linguist"
)

const tsTemplateData = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1"
{{- with .Language }} language="{{ xml . }}"{{ end }}
{{- with .SourceLanguage }} sourcelanguage="{{ xml . }}"{{ end }}>
{{ range .Contexts -}}
<context>
    <name>{{ text .Name }}</name>
{{ range .Messages -}}
    <message{{ with .ID }} id="{{ xml . }}"{{ end }}{{ if .Plural }} numerus="yes"{{ end }}>
{{ range .Locations -}}
        <location filename="{{ xml .File }}"{{ if gt .Line 0 }} line="{{ .Line }}"{{ end }}/>
{{ end -}}
        <source>{{ text .Source }}</source>
{{ with .Comment -}}
        <comment>{{ text . }}</comment>
{{ end -}}
{{ with .ExtraComment -}}
        <extracomment>{{ text . }}</extracomment>
{{ end -}}
{{ with .TranslatorComment -}}
        <translatorcomment>{{ text . }}</translatorcomment>
{{ end -}}
{{ if .Plural -}}
        <translation{{ with .Type }} type="{{ . }}"{{ end }}>
{{- range .Forms }}
            <numerusform>{{ text . }}</numerusform>
{{- end }}
        </translation>
{{ else -}}
        <translation{{ with .Type }} type="{{ . }}"{{ end }}>{{ text .Text }}</translation>
{{ end -}}
    </message>
{{ end -}}
</context>
{{ end -}}
</TS>
`

var tsTemplate = template.Must(template.New("ts").Funcs(template.FuncMap{
	"xml":  escapeAttr,
	"text": escapeText,
}).Parse(tsTemplateData))

type tsMessage struct {
	linguist.Message
	Plural bool
	Type   string
	Text   string
	Forms  []string
}

type tsContext struct {
	Name     string
	Messages []tsMessage
}

func tsType(s linguist.Status) string {
	if s == linguist.Finished {
		return ""
	}
	return s.String()
}

// WriteTS writes c as a TS document that ParseTS reads back into an
// equivalent catalog.
func WriteTS(w io.Writer, c *linguist.Catalog) error {
	var contexts []tsContext
	for _, ctx := range c.Contexts() {
		tc := tsContext{Name: ctx.Name}
		for _, msg := range ctx.Messages {
			tc.Messages = append(tc.Messages, tsMessage{
				Message: msg,
				Plural:  msg.Translation.IsPlural(),
				Type:    tsType(msg.Status),
				Text:    msg.Translation.Text(),
				Forms:   msg.Translation.Forms(),
			})
		}
		contexts = append(contexts, tc)
	}

	err := tsTemplate.Execute(w, struct {
		Language       string
		SourceLanguage string
		Contexts       []tsContext
	}{
		Language:       c.Language(),
		SourceLanguage: c.SourceLanguage(),
		Contexts:       contexts,
	})
	if err != nil {
		return fmt.Errorf("cannot write TS document: %w", err)
	}
	return nil
}

func escapeAttr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// escapeText escapes s for element content. Control characters that XML
// cannot carry are written as <byte> elements.
func escapeText(s string) string {
	var b strings.Builder
	start := 0
	for i, r := range s {
		if r >= 0x20 || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		xml.EscapeText(&b, []byte(s[start:i]))
		fmt.Fprintf(&b, `<byte value="x%x"/>`, r)
		start = i + 1
	}
	xml.EscapeText(&b, []byte(s[start:]))
	return b.String()
}
