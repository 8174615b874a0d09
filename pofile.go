package linguist

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leonelquinteros/gotext"
	"github.com/samber/lo"
)

// POCommentSeparator joins context and disambiguating comment in a PO
// msgctxt, which has no field of its own for the comment.
const POCommentSeparator = "|"

// ParsePO parses a gettext PO catalog. Messages are ordered by context name
// and then by msgid, since PO parsing does not retain document order.
// Untranslated entries are Unfinished.
func ParsePO(data []byte, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	if err := validatePO(data); err != nil {
		return nil, err
	}
	po := gotext.NewPo()
	po.Parse(data)
	dom := po.GetDomain()

	if dom.Language != "" {
		o.language = dom.Language
	}
	if dom.PluralForms != "" && o.plural == nil {
		rule, err := ParsePluralForms(dom.PluralForms)
		if err != nil {
			o.warn(Warning{Kind: SchemaWarning, Msg: err.Error()})
		} else {
			o.plural = rule
		}
	}

	var contexts []Context
	byName := make(map[string]int)
	add := func(msgctxt string, trs map[string]*gotext.Translation) {
		name, comment, _ := strings.Cut(msgctxt, POCommentSeparator)
		msgs := poMessages(name, comment, trs)
		if len(msgs) == 0 {
			return
		}
		pos, ok := byName[name]
		if !ok {
			pos = len(contexts)
			byName[name] = pos
			contexts = append(contexts, Context{Name: name})
		}
		contexts[pos].Messages = append(contexts[pos].Messages, msgs...)
	}
	add("", dom.GetTranslations())
	ctxTrs := dom.GetCtxTranslations()
	names := lo.Keys(ctxTrs)
	sort.Strings(names)
	for _, name := range names {
		add(name, ctxTrs[name])
	}

	c, err := o.build(contexts)
	if err != nil {
		return nil, &ParseError{Format: "PO", Err: err}
	}
	return c, nil
}

func poMessages(context, comment string, trs map[string]*gotext.Translation) []Message {
	ids := lo.Keys(trs)
	sort.Strings(ids)
	msgs := make([]Message, 0, len(ids))
	for _, id := range ids {
		// the header entry
		if id == "" {
			continue
		}
		msgs = append(msgs, poMessage(context, comment, trs[id]))
	}
	return msgs
}

func poMessage(context, comment string, tr *gotext.Translation) Message {
	msg := Message{
		Context: context,
		Source:  tr.ID,
		Comment: comment,
	}
	for _, refs := range tr.Refs {
		// one "#:" line may hold several references
		for _, ref := range strings.Fields(refs) {
			msg.Locations = append(msg.Locations, parseReference(ref))
		}
	}
	if tr.PluralID != "" {
		// msgstr[i] may be missing for some i
		n := 0
		for i := range tr.Trs {
			n = max(n, i+1)
		}
		forms := make([]string, n)
		for i, s := range tr.Trs {
			if i >= 0 {
				forms[i] = s
			}
		}
		msg.Translation = Plural(forms...)
	} else {
		msg.Translation = Single(tr.Trs[0])
	}
	if msg.Translation.IsEmpty() {
		msg.Status = Unfinished
	}
	return msg
}

// validatePO checks the line structure of a PO file, since the gettext
// parser skips anything it does not understand. Every line must be blank, a
// comment, a keyword followed by a quoted string, or a quoted continuation.
func validatePO(data []byte) error {
	for offset := 0; offset < len(data); {
		end := bytes.IndexByte(data[offset:], '\n')
		if end < 0 {
			end = len(data)
		} else {
			end += offset
		}
		line := data[offset:end]
		if offset == 0 {
			line = bytes.TrimPrefix(line, []byte("\ufeff"))
		}
		if !utf8.Valid(line) {
			return &ParseError{Format: "PO", Offset: int64(offset), Msg: "invalid UTF-8"}
		}
		if msg := checkPOLine(strings.TrimSpace(string(line))); msg != "" {
			return &ParseError{Format: "PO", Offset: int64(offset), Msg: msg}
		}
		offset = end + 1
	}
	return nil
}

func checkPOLine(line string) string {
	switch {
	case line == "", strings.HasPrefix(line, "#"):
		return ""
	case strings.HasPrefix(line, `"`):
		return checkPOString(line)
	}
	for _, keyword := range []string{"msgctxt", "msgid_plural", "msgid", "msgstr"} {
		rest, ok := strings.CutPrefix(line, keyword)
		if !ok {
			continue
		}
		if keyword == "msgstr" && strings.HasPrefix(rest, "[") {
			i := strings.IndexByte(rest, ']')
			if i < 0 {
				return "unterminated msgstr index"
			}
			if _, err := strconv.Atoi(rest[1:i]); err != nil {
				return fmt.Sprintf("bad msgstr index %q", rest[1:i])
			}
			rest = rest[i+1:]
		}
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			return fmt.Sprintf("%s must be followed by a string", keyword)
		}
		return checkPOString(strings.TrimSpace(rest))
	}
	return "unexpected line"
}

// checkPOString checks that s is one complete double quoted string.
func checkPOString(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "unterminated string"
	}
	// the closing quote must not be escaped
	backslashes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 != 0 {
		return "unterminated string"
	}
	return ""
}

// parseReference splits a "file:line" reference comment.
func parseReference(ref string) Location {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		if line, err := strconv.Atoi(ref[i+1:]); err == nil {
			return Location{File: ref[:i], Line: line}
		}
	}
	return Location{File: ref}
}
