package linguist

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// The TS document is read in two passes: a streaming pass building the
// document tree below, then a pass turning it into contexts and messages.

type tsDocument struct {
	version        string
	language       string
	sourceLanguage string
	contexts       []*tsContext
}

type tsContext struct {
	offset   int64
	name     string
	hasName  bool
	messages []*tsMessage
}

type tsMessage struct {
	offset  int64
	id      string
	numerus bool

	source            string
	hasSource         bool
	comment           string
	extraComment      string
	translatorComment string

	locations   []Location
	translation *tsTranslation
}

type tsTranslation struct {
	typ   string
	text  string
	forms []string
}

// known attributes per element; anything else is reported and ignored
var tsAttributes = map[string][]string{
	"TS":          {"version", "language", "sourcelanguage"},
	"message":     {"id", "numerus", "utf8", "encoding"},
	"translation": {"type", "variants"},
	"location":    {"filename", "line"},
}

type tsParser struct {
	d    *xml.Decoder
	opts *options

	// offset of the token last returned by next
	off int64

	// relative locations refer to the previous one
	lastFile string
	lastLine map[string]int
}

// ParseTS parses a TS (Qt Linguist) XML document into a Catalog.
func ParseTS(data []byte, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)
	p := &tsParser{
		d:        xml.NewDecoder(bytes.NewReader(data)),
		opts:     o,
		lastLine: make(map[string]int),
	}
	p.d.CharsetReader = charset.NewReaderLabel

	doc, err := p.parse()
	if err != nil {
		return nil, err
	}
	return p.normalize(doc)
}

func (p *tsParser) errorf(format string, args ...any) error {
	return &ParseError{Format: "TS", Offset: p.off, Msg: fmt.Sprintf(format, args...)}
}

func (p *tsParser) warnf(format string, args ...any) {
	p.opts.warn(Warning{Kind: SchemaWarning, Msg: fmt.Sprintf(format, args...)})
}

func (p *tsParser) next() (xml.Token, error) {
	p.off = p.d.InputOffset()
	tok, err := p.d.Token()
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, &ParseError{Format: "TS", Offset: p.d.InputOffset(), Err: err}
	}
	return tok, nil
}

func (p *tsParser) skip() error {
	if err := p.d.Skip(); err != nil {
		return &ParseError{Format: "TS", Offset: p.d.InputOffset(), Err: err}
	}
	return nil
}

func (p *tsParser) checkAttrs(start xml.StartElement) {
	known := tsAttributes[start.Name.Local]
outer:
	for _, attr := range start.Attr {
		for _, k := range known {
			if attr.Name.Local == k {
				continue outer
			}
		}
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		p.warnf("unknown attribute %q on <%s>", attr.Name.Local, start.Name.Local)
	}
}

func attrValue(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (p *tsParser) parse() (*tsDocument, error) {
	var doc *tsDocument
	for {
		tok, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if doc != nil {
				return nil, p.errorf("unexpected <%s> after the TS element", t.Name.Local)
			}
			if t.Name.Local != "TS" {
				return nil, p.errorf("unexpected root element <%s>", t.Name.Local)
			}
			if doc, err = p.parseRoot(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, p.errorf("unexpected text outside the TS element")
			}
		}
	}
	if doc == nil {
		p.off = p.d.InputOffset()
		return nil, p.errorf("no TS element found")
	}
	return doc, nil
}

func (p *tsParser) parseRoot(start xml.StartElement) (*tsDocument, error) {
	p.checkAttrs(start)
	doc := &tsDocument{}
	doc.version, _ = attrValue(start, "version")
	doc.language, _ = attrValue(start, "language")
	doc.sourceLanguage, _ = attrValue(start, "sourcelanguage")

	for {
		tok, err := p.next()
		if err != nil {
			return nil, p.unexpectedEOF(err, start)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "context" {
				p.warnf("unknown element <%s> in <TS>", t.Name.Local)
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			}
			ctx, err := p.parseContext(t)
			if err != nil {
				return nil, err
			}
			doc.contexts = append(doc.contexts, ctx)
		case xml.EndElement:
			return doc, nil
		}
	}
}

func (p *tsParser) unexpectedEOF(err error, start xml.StartElement) error {
	if err == io.EOF {
		p.off = p.d.InputOffset()
		return p.errorf("unexpected end of document inside <%s>", start.Name.Local)
	}
	return err
}

func (p *tsParser) parseContext(start xml.StartElement) (*tsContext, error) {
	ctx := &tsContext{offset: p.off}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, p.unexpectedEOF(err, start)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if ctx.name, err = p.readText(t, nil); err != nil {
					return nil, err
				}
				ctx.hasName = true
			case "message":
				msg, err := p.parseMessage(t)
				if err != nil {
					return nil, err
				}
				ctx.messages = append(ctx.messages, msg)
			case "comment":
				// context level comments carry no translatable data
				if err := p.skip(); err != nil {
					return nil, err
				}
			default:
				p.warnf("unknown element <%s> in <context>", t.Name.Local)
				if err := p.skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if !ctx.hasName {
				p.off = ctx.offset
				return nil, p.errorf("context without a name")
			}
			return ctx, nil
		}
	}
}

func (p *tsParser) parseMessage(start xml.StartElement) (*tsMessage, error) {
	p.checkAttrs(start)
	msg := &tsMessage{offset: p.off}
	msg.id, _ = attrValue(start, "id")
	if v, ok := attrValue(start, "numerus"); ok {
		msg.numerus = v == "yes"
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, p.unexpectedEOF(err, start)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var dst *string
			switch name := t.Name.Local; {
			case name == "source":
				dst = &msg.source
				msg.hasSource = true
			case name == "comment":
				dst = &msg.comment
			case name == "extracomment":
				dst = &msg.extraComment
			case name == "translatorcomment":
				dst = &msg.translatorComment
			case name == "location":
				msg.locations = append(msg.locations, p.parseLocation(t))
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			case name == "translation":
				if msg.translation, err = p.parseTranslation(t); err != nil {
					return nil, err
				}
				continue
			case name == "oldsource", name == "oldcomment", name == "userdata", strings.HasPrefix(name, "extra-"):
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			default:
				p.warnf("unknown element <%s> in <message>", name)
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			}
			if *dst, err = p.readText(t, nil); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if !msg.hasSource {
				p.off = msg.offset
				return nil, p.errorf("message without a source")
			}
			return msg, nil
		}
	}
}

func (p *tsParser) parseLocation(start xml.StartElement) Location {
	p.checkAttrs(start)
	file, ok := attrValue(start, "filename")
	if !ok {
		file = p.lastFile
	}
	loc := Location{File: file}
	if v, ok := attrValue(start, "line"); ok {
		relative := strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-")
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			p.warnf("invalid location line %q", v)
		case relative:
			loc.Line = p.lastLine[file] + n
		default:
			loc.Line = n
		}
	}
	p.lastFile = file
	p.lastLine[file] = loc.Line
	return loc
}

func (p *tsParser) parseTranslation(start xml.StartElement) (*tsTranslation, error) {
	p.checkAttrs(start)
	tr := &tsTranslation{}
	tr.typ, _ = attrValue(start, "type")
	var err error
	tr.text, err = p.readText(start, &tr.forms)
	return tr, err
}

// readText returns the text content of the element opened by start. Markup
// nested in the text is payload and is kept verbatim, except for <byte>
// character escapes and <lengthvariant>, of which only the first is used.
// When forms is not nil, <numerusform> children are collected into it.
func (p *tsParser) readText(start xml.StartElement, forms *[]string) (string, error) {
	var b strings.Builder
	haveVariant := false
	for {
		tok, err := p.next()
		if err != nil {
			return "", p.unexpectedEOF(err, start)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if !haveVariant {
				b.Write(t)
			}
		case xml.StartElement:
			switch {
			case t.Name.Local == "byte":
				v, _ := attrValue(t, "value")
				if r, ok := parseByteValue(v); !ok {
					p.warnf("invalid byte value %q", v)
				} else if !haveVariant {
					b.WriteRune(r)
				}
				if err := p.skip(); err != nil {
					return "", err
				}
			case t.Name.Local == "numerusform" && forms != nil:
				s, err := p.readText(t, nil)
				if err != nil {
					return "", err
				}
				*forms = append(*forms, s)
			case t.Name.Local == "lengthvariant":
				s, err := p.readText(t, nil)
				if err != nil {
					return "", err
				}
				if !haveVariant {
					b.Reset()
					b.WriteString(s)
					haveVariant = true
				}
			default:
				inner, err := p.readText(t, nil)
				if err != nil {
					return "", err
				}
				if haveVariant {
					continue
				}
				writeStartTag(&b, t)
				b.WriteString(inner)
				b.WriteString("</" + t.Name.Local + ">")
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

func writeStartTag(b *strings.Builder, t xml.StartElement) {
	b.WriteString("<" + t.Name.Local)
	for _, attr := range t.Attr {
		b.WriteString(" " + attr.Name.Local + `="`)
		xml.EscapeText(b, []byte(attr.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

// parseByteValue decodes the value of a <byte> escape, "x1b" or "27".
func parseByteValue(v string) (rune, bool) {
	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(v, "x") {
		n, err = strconv.ParseUint(v[1:], 16, 32)
	} else {
		n, err = strconv.ParseUint(v, 10, 32)
	}
	if err != nil || n > 0x10ffff {
		return 0, false
	}
	return rune(n), true
}

func (p *tsParser) normalize(doc *tsDocument) (*Catalog, error) {
	if doc.language != "" {
		p.opts.language = doc.language
	}
	p.opts.sourceLanguage = doc.sourceLanguage

	offsets := make(map[Key]int64)
	contexts := make([]Context, 0, len(doc.contexts))
	for _, tc := range doc.contexts {
		ctx := Context{Name: tc.name, Messages: make([]Message, 0, len(tc.messages))}
		for _, tm := range tc.messages {
			msg := Message{
				Context:           tc.name,
				Source:            tm.source,
				Comment:           tm.comment,
				ExtraComment:      tm.extraComment,
				TranslatorComment: tm.translatorComment,
				ID:                tm.id,
				Locations:         tm.locations,
			}
			tr := tm.translation
			if tr == nil {
				tr = &tsTranslation{typ: "unfinished"}
			}
			status, ok := ParseStatus(tr.typ)
			if !ok {
				p.opts.warn(Warning{
					Kind:    SchemaWarning,
					Context: tc.name,
					Source:  tm.source,
					Msg:     fmt.Sprintf("unknown translation type %q, treated as finished", tr.typ),
				})
			}
			msg.Status = status
			switch {
			case len(tr.forms) > 0:
				msg.Translation = Plural(tr.forms...)
			case tm.numerus && strings.TrimSpace(tr.text) != "":
				// a plain translation of a numerus message serves every count
				msg.Translation = Plural(tr.text)
			case tm.numerus:
				msg.Translation = Plural()
			default:
				msg.Translation = Single(tr.text)
			}
			if _, ok := offsets[msg.Key()]; !ok {
				offsets[msg.Key()] = tm.offset
			}
			ctx.Messages = append(ctx.Messages, msg)
		}
		contexts = append(contexts, ctx)
	}

	c, err := p.opts.build(contexts)
	var mismatch *PluralMismatchError
	if errors.As(err, &mismatch) {
		return nil, &ParseError{Format: "TS", Offset: offsets[mismatch.Key], Err: err}
	}
	return c, err
}
