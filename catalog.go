package linguist

import (
	"fmt"

	"golang.org/x/text/language"
)

// Context is a named group of messages, typically one UI component.
type Context struct {
	Name     string
	Messages []Message
}

func (c Context) clone() Context {
	msgs := make([]Message, len(c.Messages))
	for i := range c.Messages {
		msgs[i] = c.Messages[i].clone()
	}
	c.Messages = msgs
	return c
}

// Catalog of translations for a given locale. A Catalog never changes after
// it has been built and may be shared freely between goroutines. Switch
// locales by replacing the Catalog, see Active.
type Catalog struct {
	language       string
	sourceLanguage string
	tag            language.Tag
	plural         *PluralRule

	contexts []Context
	index    *Index
	warnings []Warning
}

// Option configures how a catalog is built or loaded.
type Option func(*options)

type options struct {
	language       string
	sourceLanguage string
	plural         *PluralRule
	strictPlurals  bool

	// collected by the parsers
	warnings []Warning
}

// WithLanguage sets the catalog language when the loaded document does not
// declare one.
func WithLanguage(lang string) Option {
	return func(o *options) {
		o.language = lang
	}
}

// WithPluralRule replaces the built-in plural rule of the catalog language.
func WithPluralRule(rule *PluralRule) Option {
	return func(o *options) {
		o.plural = rule
	}
}

// WithStrictPlurals makes a plural translation whose form count disagrees
// with the plural rule a load error instead of a warning.
func WithStrictPlurals() Option {
	return func(o *options) {
		o.strictPlurals = true
	}
}

// PluralMismatchError is returned in strict mode for a plural translation
// whose form count does not match the plural rule of the catalog.
type PluralMismatchError struct {
	Key  Key
	Want int
	Got  int
}

func (e *PluralMismatchError) Error() string {
	return fmt.Sprintf("message %q in context %q has %d plural forms, want %d", e.Key.Source, e.Key.Context, e.Got, e.Want)
}

// NewCatalog builds a catalog for language from contexts, which are copied.
// Contexts sharing a name are merged into the first of them.
func NewCatalog(lang string, contexts []Context, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)
	if lang != "" {
		o.language = lang
	}
	return o.build(contexts)
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) warn(w Warning) {
	o.warnings = append(o.warnings, w)
}

func (o *options) build(contexts []Context) (*Catalog, error) {
	c := &Catalog{
		language:       o.language,
		sourceLanguage: o.sourceLanguage,
		plural:         o.plural,
		tag:            language.Und,
	}
	if tag, err := parseLocale(o.language); err == nil {
		c.tag = tag
	}
	if c.plural == nil && c.tag != language.Und {
		c.plural, _ = lookupPluralRule(c.tag)
	}

	byName := make(map[string]int, len(contexts))
	for _, ctx := range contexts {
		pos, seen := byName[ctx.Name]
		if !seen {
			pos = len(c.contexts)
			byName[ctx.Name] = pos
			c.contexts = append(c.contexts, Context{Name: ctx.Name})
		} else {
			o.warn(Warning{Kind: DuplicateContext, Context: ctx.Name, Msg: "context declared more than once, merged"})
		}
		dst := &c.contexts[pos]
		for _, msg := range ctx.Messages {
			msg = msg.clone()
			msg.Context = ctx.Name
			dst.Messages = append(dst.Messages, msg)
		}
	}

	if err := c.checkPlurals(o); err != nil {
		return nil, err
	}

	c.index = NewIndex(c.contexts)
	c.warnings = o.warnings
	for _, w := range c.warnings {
		logWarning(c.language, w)
	}
	return c, nil
}

func (c *Catalog) checkPlurals(o *options) error {
	unknownReported := false
	for _, ctx := range c.contexts {
		for _, msg := range ctx.Messages {
			if !msg.Translation.IsPlural() {
				continue
			}
			if c.plural == nil {
				if !unknownReported {
					o.warn(Warning{Kind: UnknownLocale, Msg: fmt.Sprintf("no plural rule for language %q, using the first form", c.language)})
					unknownReported = true
				}
				continue
			}
			got := msg.Translation.Len()
			if got == c.plural.Forms || msg.Status == Obsolete {
				continue
			}
			if o.strictPlurals {
				return &PluralMismatchError{Key: msg.Key(), Want: c.plural.Forms, Got: got}
			}
			o.warn(Warning{
				Kind:    PluralFormMismatch,
				Context: msg.Context,
				Source:  msg.Source,
				Msg:     fmt.Sprintf("%d plural forms, want %d", got, c.plural.Forms),
			})
		}
	}
	return nil
}

// Language returns the locale identifier the catalog was loaded for, as
// written in the document, for example "ja_JP".
func (c *Catalog) Language() string {
	if c == nil {
		return ""
	}
	return c.language
}

// Tag returns the catalog language as a BCP 47 tag, or language.Und.
func (c *Catalog) Tag() language.Tag {
	if c == nil {
		return language.Und
	}
	return c.tag
}

// SourceLanguage returns the language of the source strings, if declared.
func (c *Catalog) SourceLanguage() string {
	if c == nil {
		return ""
	}
	return c.sourceLanguage
}

// PluralRule returns the rule used to select plural forms, or nil when the
// catalog language has none.
func (c *Catalog) PluralRule() *PluralRule {
	if c == nil {
		return nil
	}
	return c.plural
}

// Contexts returns a copy of the contexts in document order.
func (c *Catalog) Contexts() []Context {
	if c == nil {
		return nil
	}
	out := make([]Context, len(c.contexts))
	for i := range c.contexts {
		out[i] = c.contexts[i].clone()
	}
	return out
}

// Context returns a copy of the named context.
func (c *Catalog) Context(name string) (Context, bool) {
	if c == nil {
		return Context{}, false
	}
	return c.index.Context(name)
}

// Lookup returns the message that wins for key, without fallbacks.
func (c *Catalog) Lookup(key Key) (Message, bool) {
	if c == nil {
		return Message{}, false
	}
	return c.index.Lookup(key)
}

// Index returns the lookup index of the catalog.
func (c *Catalog) Index() *Index {
	if c == nil {
		return nil
	}
	return c.index
}

// Warnings returns the problems recovered from while loading the catalog.
func (c *Catalog) Warnings() []Warning {
	if c == nil {
		return nil
	}
	return append([]Warning(nil), c.warnings...)
}

// Len returns the number of message records, duplicates included.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for i := range c.contexts {
		n += len(c.contexts[i].Messages)
	}
	return n
}
