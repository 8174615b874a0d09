package linguist

import (
	"context"
	"sync/atomic"
)

// LoaderFunc builds a catalog, for example by calling LoadFile.
type LoaderFunc func(ctx context.Context) (*Catalog, error)

// Active holds the catalog currently used by an application. Readers take a
// snapshot with Catalog and keep using it even if another goroutine swaps in
// a new catalog meanwhile; nothing blocks.
type Active struct {
	cur atomic.Pointer[Catalog]
}

// NewActive returns an Active serving c, which may be nil.
func NewActive(c *Catalog) *Active {
	a := &Active{}
	a.cur.Store(c)
	return a
}

// Catalog returns the current catalog.
func (a *Active) Catalog() *Catalog {
	return a.cur.Load()
}

// Swap installs c and returns the catalog it replaces.
func (a *Active) Swap(c *Catalog) *Catalog {
	return a.cur.Swap(c)
}

// Language returns the language of the current catalog.
func (a *Active) Language() string {
	return a.Catalog().Language()
}

// Tr translates with the current catalog, see Catalog.Tr.
func (a *Active) Tr(context, source string, args ...any) string {
	return a.Catalog().Tr(context, source, args...)
}

// TrC translates with the current catalog, see Catalog.TrC.
func (a *Active) TrC(context, source, comment string, args ...any) string {
	return a.Catalog().TrC(context, source, comment, args...)
}

// TrN translates with the current catalog, see Catalog.TrN.
func (a *Active) TrN(context, source string, n int, args ...any) string {
	return a.Catalog().TrN(context, source, n, args...)
}

// TrNC translates with the current catalog, see Catalog.TrNC.
func (a *Active) TrNC(context, source, comment string, n int, args ...any) string {
	return a.Catalog().TrNC(context, source, comment, n, args...)
}

// Reload builds a catalog with load and installs it. If load fails, or ctx
// is done before the catalog is complete, the current catalog stays in
// place and the error is returned.
func (a *Active) Reload(ctx context.Context, load LoaderFunc) error {
	c, err := load(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a.Swap(c)
	Logger.Info().Str("language", c.Language()).Int("messages", c.Len()).Msg("Switched catalog")
	return nil
}

// ReloadAsync runs Reload on a new goroutine while the current catalog keeps
// serving. The returned channel receives the result and is then closed.
func (a *Active) ReloadAsync(ctx context.Context, load LoaderFunc) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- a.Reload(ctx, load)
	}()
	return done
}
