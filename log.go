package linguist

import (
	"github.com/rs/zerolog"
)

// Logger receives load-time diagnostics. It discards everything until the
// application installs its own logger, for example:
//
//	linguist.Logger = log.With().Str("sys", "linguist").Logger()
//
// Lookups never log.
var Logger = zerolog.Nop()

func logWarning(language string, w Warning) {
	ev := Logger.Warn().
		Str("language", language).
		Str("kind", w.Kind.String())
	if w.Context != "" {
		ev = ev.Str("context", w.Context)
	}
	if w.Source != "" {
		ev = ev.Str("source", w.Source)
	}
	ev.Msg(w.Msg)
}
