// Package linguist implements translation catalogs in the Qt Linguist
// model: messages grouped by context, tagged finished, unfinished or
// obsolete, with plural forms selected by per-locale rules and positional
// placeholders substituted at lookup time.
//
// Catalogs are read from TS documents, gettext MO and PO files and a YAML
// form, and are immutable once built.
package linguist

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// Translations holds the catalogs of the different locales your app
// supports. Use NewTranslations to create an instance.
type Translations struct {
	// As we don't want the mutex protecting the catalog cache to be
	// copied, we embed a pointer to an ancillary struct holding our
	// data.
	*translations
}

type translations struct {
	mu    sync.Mutex
	cache map[string]*Catalog
	group singleflight.Group

	root     string
	domain   string
	resolver PathResolver
	opts     []Option
}

// PathResolver resolves a path to a catalog file.
type PathResolver func(root string, locale string, domain string) string

// DefaultResolver resolves paths in the usual Qt layout of:
// <root>/<domain>_<locale>.ts
func DefaultResolver(root string, locale string, domain string) string {
	return filepath.Join(root, domain+"_"+locale+".ts")
}

// NewTranslations sets up the locales for your app. root is the directory
// holding the catalogs, domain the catalog name and resolver a function
// that resolves catalog paths. opts are passed to LoadFile.
func NewTranslations(root string, domain string, resolver PathResolver, opts ...Option) Translations {
	if resolver == nil {
		resolver = DefaultResolver
	}
	return Translations{&translations{
		root:     root,
		domain:   domain,
		resolver: resolver,
		opts:     opts,
		cache:    map[string]*Catalog{},
	}}
}

// Preload loads a list of locales concurrently. Subsequent calls to Preload
// or Locale using a locale given here will not do any IO. Locales without a
// catalog file are skipped; the first other load error is returned.
func (t Translations) Preload(ctx context.Context, locales ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, locale := range locales {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := t.load(locale)
			return err
		})
	}
	return g.Wait()
}

// load returns the cached catalog for locale, reading it on first use. A
// missing file is cached as nil.
func (t Translations) load(locale string) (*Catalog, error) {
	t.mu.Lock()
	c, ok := t.cache[locale]
	t.mu.Unlock()
	if ok {
		return c, nil
	}

	v, err, _ := t.group.Do(locale, func() (any, error) {
		path := t.resolver(t.root, locale, t.domain)
		opts := append([]Option{WithLanguage(locale)}, t.opts...)
		c, err := LoadFile(path, opts...)
		if errors.Is(err, fs.ErrNotExist) {
			c, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.cache[locale] = c
		t.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Locale returns the catalog of the first of languages that has one. Each
// language is expanded to its less specific variants, so "pt_BR.UTF-8"
// also tries "pt_BR" and "pt". Catalogs that fail to load are logged and
// skipped. If nothing is found Locale returns nil, and a nil catalog
// resolves every lookup to its source string.
func (t Translations) Locale(languages ...string) *Catalog {
	for _, lang := range normalizeLanguages(languages) {
		c, err := t.load(lang)
		if err != nil {
			Logger.Warn().Err(err).Str("locale", lang).Msg("Cannot load catalog")
			continue
		}
		if c != nil {
			return c
		}
	}
	return nil
}

// UserLocale returns the catalog for the user's locale.
func (t Translations) UserLocale() *Catalog {
	return t.Locale(UserLanguages()...)
}

// Available returns the locales with a loaded catalog, sorted.
func (t Translations) Available() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var locales []string
	for locale, c := range t.cache {
		if c != nil {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	return locales
}

// Match picks among the loaded catalogs the one that best serves the
// preferred languages, given as BCP 47 tags or POSIX locale names. It
// returns nil and language.Und when no catalog is loaded or none is a
// reasonable match.
func (t Translations) Match(preferred ...string) (*Catalog, language.Tag) {
	locales := t.Available()
	if len(locales) == 0 {
		return nil, language.Und
	}
	var supported []language.Tag
	var byIndex []string
	for _, locale := range locales {
		tag, err := parseLocale(locale)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		byIndex = append(byIndex, locale)
	}
	var want []language.Tag
	for _, p := range preferred {
		if tag, err := parseLocale(p); err == nil {
			want = append(want, tag)
		}
	}
	if len(supported) == 0 || len(want) == 0 {
		return nil, language.Und
	}

	_, idx, conf := language.NewMatcher(supported).Match(want...)
	if conf == language.No {
		return nil, language.Und
	}
	c, _ := t.load(byIndex[idx])
	return c, supported[idx]
}
