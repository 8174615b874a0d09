package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/snapcore/go-linguist"
)

const poTemplateData = `# Translations for {{ or .Options.PackageName "PACKAGE" }}.
#
msgid ""
msgstr ""
"Project-Id-Version: {{ or .Options.PackageName "PACKAGE" }}\n"
{{ if .Options.BugsAddress -}}
"Report-Msgid-Bugs-To: {{ .Options.BugsAddress }}\n"
{{ end -}}
{{ if .Options.RevisionDate -}}
"PO-Revision-Date: {{ .Options.RevisionDate }}\n"
{{ end -}}
"Language: {{ .Language }}\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
{{ with .PluralForms -}}
"Plural-Forms: {{ . }}\n"
{{ end -}}
{{ range $m := .Messages -}}
{{ "\n" -}}
{{ .Comments -}}
{{ .Positions -}}
{{ if .Fuzzy -}}
#, fuzzy
{{ end -}}
{{ .Prefix }}{{ if .MsgContext }}msgctxt {{ .MsgContext }}
{{ .Prefix }}{{ end }}msgid {{ .Msgid }}
{{ if .Plural -}}
{{ .Prefix }}msgid_plural {{ .Msgid }}
{{ range $i, $s := .Msgstr -}}
{{ $m.Prefix }}msgstr[{{ $i }}] {{ $s }}
{{ end -}}
{{ else -}}
{{ .Prefix }}msgstr {{ index .Msgstr 0 }}
{{ end -}}
{{ end -}}
`

var poTemplate = template.Must(template.New("po").Parse(poTemplateData))

// POOptions fill in the PO header.
type POOptions struct {
	PackageName  string
	BugsAddress  string
	RevisionDate string
}

type poMessage struct {
	Prefix     string
	MsgContext string
	Msgid      string
	Msgstr     []string
	Plural     bool
	Fuzzy      bool

	Positions string
	Comments  string
}

func quoteMsgid(msg string) string {
	if len(msg) == 0 {
		return `""`
	}

	quoted := []string{`""`}
	for _, line := range strings.SplitAfter(msg, "\n") {
		if len(line) == 0 {
			continue
		}
		quoted = append(quoted, strconv.Quote(line))
	}

	if len(quoted) == 2 {
		return quoted[1]
	}
	return strings.Join(quoted, "\n")
}

func commentLines(prefix, text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(strings.TrimRight(prefix+" "+line, " ") + "\n")
	}
	return b.String()
}

func positions(locs []linguist.Location) string {
	var out, line string
	for _, loc := range locs {
		pos := loc.String()
		if len(line)+len(pos) > 75 {
			out += "#:" + line + "\n"
			line = ""
		}
		line += " " + pos
	}
	if len(line) > 0 {
		out += "#:" + line + "\n"
	}
	return out
}

func newPOMessage(msg linguist.Message) *poMessage {
	pm := &poMessage{
		Msgid:  quoteMsgid(msg.Source),
		Plural: msg.Translation.IsPlural(),
	}
	ctx := msg.Context
	if msg.Comment != "" {
		ctx += linguist.POCommentSeparator + msg.Comment
	}
	if ctx != "" {
		pm.MsgContext = quoteMsgid(ctx)
	}
	if pm.Plural {
		for _, form := range msg.Translation.Forms() {
			pm.Msgstr = append(pm.Msgstr, quoteMsgid(form))
		}
		if len(pm.Msgstr) == 0 {
			pm.Msgstr = []string{`""`}
		}
	} else {
		pm.Msgstr = []string{quoteMsgid(msg.Translation.Text())}
	}

	switch msg.Status {
	case linguist.Unfinished:
		pm.Fuzzy = !msg.Translation.IsEmpty()
	case linguist.Obsolete:
		// obsolete entries are kept commented out and lose their
		// locations
		pm.Prefix = "#~ "
		pm.Msgid = strings.ReplaceAll(pm.Msgid, "\n", "\n#~ ")
		if pm.MsgContext != "" {
			pm.MsgContext = strings.ReplaceAll(pm.MsgContext, "\n", "\n#~ ")
		}
		for i := range pm.Msgstr {
			pm.Msgstr[i] = strings.ReplaceAll(pm.Msgstr[i], "\n", "\n#~ ")
		}
	}

	if msg.TranslatorComment != "" {
		pm.Comments += commentLines("#", msg.TranslatorComment)
	}
	if msg.ExtraComment != "" {
		pm.Comments += commentLines("#.", msg.ExtraComment)
	}
	if msg.Status != linguist.Obsolete {
		pm.Positions = positions(msg.Locations)
	}
	return pm
}

// WritePO writes c as a gettext PO file. Unfinished translations are
// marked fuzzy and obsolete ones are commented out.
func WritePO(w io.Writer, c *linguist.Catalog, opts POOptions) error {
	var msgs []*poMessage
	for _, ctx := range c.Contexts() {
		for _, msg := range ctx.Messages {
			msgs = append(msgs, newPOMessage(msg))
		}
	}
	var pluralForms string
	if rule := c.PluralRule(); rule != nil {
		pluralForms = rule.String()
	}

	err := poTemplate.Execute(w, struct {
		Options     POOptions
		Language    string
		PluralForms string
		Messages    []*poMessage
	}{
		Options:     opts,
		Language:    c.Language(),
		PluralForms: pluralForms,
		Messages:    msgs,
	})
	if err != nil {
		return fmt.Errorf("cannot write PO file: %w", err)
	}
	return nil
}
