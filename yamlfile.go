package linguist

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

type yamlCatalog struct {
	Language       string        `yaml:"language,omitempty"`
	SourceLanguage string        `yaml:"sourceLanguage,omitempty"`
	PluralForms    string        `yaml:"pluralForms,omitempty"`
	Contexts       []yamlContext `yaml:"contexts"`
}

type yamlContext struct {
	Name     string        `yaml:"name"`
	Messages []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	ID                string         `yaml:"id,omitempty"`
	Source            string         `yaml:"source"`
	Comment           string         `yaml:"comment,omitempty"`
	ExtraComment      string         `yaml:"extraComment,omitempty"`
	TranslatorComment string         `yaml:"translatorComment,omitempty"`
	Translation       string         `yaml:"translation,omitempty"`
	Plurals           []string       `yaml:"plurals,omitempty"`
	Status            string         `yaml:"status,omitempty"`
	Locations         []yamlLocation `yaml:"locations,omitempty"`
}

type yamlLocation struct {
	File string `yaml:"file"`
	Line int    `yaml:"line,omitempty"`
}

// ParseYAML parses a catalog written by WriteYAML. A pluralForms entry
// replaces the built-in plural rule of the language.
func ParseYAML(data []byte, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Format: "YAML", Err: err}
	}
	if doc.Language != "" {
		o.language = doc.Language
	}
	if doc.SourceLanguage != "" {
		o.sourceLanguage = doc.SourceLanguage
	}
	if doc.PluralForms != "" && o.plural == nil {
		rule, err := ParsePluralForms(doc.PluralForms)
		if err != nil {
			return nil, &ParseError{Format: "YAML", Msg: "bad pluralForms", Err: err}
		}
		o.plural = rule
	}

	contexts := make([]Context, 0, len(doc.Contexts))
	for _, yc := range doc.Contexts {
		ctx := Context{Name: yc.Name}
		for _, ym := range yc.Messages {
			ctx.Messages = append(ctx.Messages, ym.message(o, yc.Name))
		}
		contexts = append(contexts, ctx)
	}

	c, err := o.build(contexts)
	if err != nil {
		return nil, &ParseError{Format: "YAML", Err: err}
	}
	return c, nil
}

func (ym yamlMessage) message(o *options, context string) Message {
	status, ok := ParseStatus(ym.Status)
	if !ok {
		o.warn(Warning{
			Kind:    SchemaWarning,
			Context: context,
			Source:  ym.Source,
			Msg:     fmt.Sprintf("unknown status %q, treated as finished", ym.Status),
		})
	}
	msg := Message{
		Context:           context,
		Source:            ym.Source,
		Comment:           ym.Comment,
		ExtraComment:      ym.ExtraComment,
		TranslatorComment: ym.TranslatorComment,
		ID:                ym.ID,
		Status:            status,
		Locations: lo.Map(ym.Locations, func(l yamlLocation, _ int) Location {
			return Location{File: l.File, Line: l.Line}
		}),
	}
	if ym.Plurals != nil {
		msg.Translation = Plural(ym.Plurals...)
	} else {
		msg.Translation = Single(ym.Translation)
	}
	return msg
}

// WriteYAML writes c in the format read by ParseYAML.
func WriteYAML(w io.Writer, c *Catalog) error {
	doc := yamlCatalog{
		Language:       c.Language(),
		SourceLanguage: c.SourceLanguage(),
	}
	if rule := c.PluralRule(); rule != nil {
		doc.PluralForms = rule.String()
	}
	for _, ctx := range c.Contexts() {
		doc.Contexts = append(doc.Contexts, yamlContext{
			Name:     ctx.Name,
			Messages: lo.Map(ctx.Messages, func(m Message, _ int) yamlMessage { return newYAMLMessage(m) }),
		})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("cannot encode catalog: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func newYAMLMessage(m Message) yamlMessage {
	ym := yamlMessage{
		ID:                m.ID,
		Source:            m.Source,
		Comment:           m.Comment,
		ExtraComment:      m.ExtraComment,
		TranslatorComment: m.TranslatorComment,
		Locations: lo.Map(m.Locations, func(l Location, _ int) yamlLocation {
			return yamlLocation{File: l.File, Line: l.Line}
		}),
	}
	if m.Status != Finished {
		ym.Status = m.Status.String()
	}
	if m.Translation.IsPlural() {
		ym.Plurals = m.Translation.Forms()
	} else {
		ym.Translation = m.Translation.Text()
	}
	return ym
}
