package linguist

// Request describes one lookup. Comment, Plural/N and Args are optional.
type Request struct {
	Context string
	Source  string
	Comment string

	// Plural requests plural form selection for the count N. N also
	// replaces the %n marker.
	Plural bool
	N      int

	Args []any
}

// Tr translates source within context.
func (c *Catalog) Tr(context, source string, args ...any) string {
	return c.Resolve(Request{Context: context, Source: source, Args: args})
}

// TrC translates source within context, using comment to pick among
// identical sources.
func (c *Catalog) TrC(context, source, comment string, args ...any) string {
	return c.Resolve(Request{Context: context, Source: source, Comment: comment, Args: args})
}

// TrN translates source within context, choosing the plural form for n.
func (c *Catalog) TrN(context, source string, n int, args ...any) string {
	return c.Resolve(Request{Context: context, Source: source, Plural: true, N: n, Args: args})
}

// TrNC is the commented variant of TrN.
func (c *Catalog) TrNC(context, source, comment string, n int, args ...any) string {
	return c.Resolve(Request{Context: context, Source: source, Comment: comment, Plural: true, N: n, Args: args})
}

// Resolve returns the translation for req with placeholders substituted.
//
// A lookup with a comment that finds nothing is retried without the
// comment. When there is still no match, or the match is obsolete or
// empty, the source string itself is used, so Resolve never returns an
// empty string for a non-empty source. Resolve has no side effects and a
// nil Catalog resolves every request to its source.
func (c *Catalog) Resolve(req Request) string {
	var count *int
	if req.Plural {
		count = &req.N
	}

	msg := c.Index().lookup(Key{Context: req.Context, Source: req.Source, Comment: req.Comment})
	if msg == nil && req.Comment != "" {
		msg = c.Index().lookup(Key{Context: req.Context, Source: req.Source})
	}
	if msg == nil || msg.Status == Obsolete || msg.Translation.IsEmpty() {
		return substitute(req.Source, c.Tag(), count, req.Args)
	}

	var text string
	switch t := msg.Translation; {
	case !t.IsPlural() || !req.Plural:
		text = t.Text()
	default:
		text = t.Form(c.formIndex(req.N, t.Len()))
		if text == "" {
			text = req.Source
		}
	}
	return substitute(text, c.Tag(), count, req.Args)
}

// formIndex selects the plural form for n, clamped to the available forms.
// Without a plural rule the first form is used.
func (c *Catalog) formIndex(n, forms int) int {
	rule := c.PluralRule()
	if rule == nil || forms == 0 {
		return 0
	}
	i := rule.Index(n)
	if i >= forms {
		i = forms - 1
	}
	return i
}
