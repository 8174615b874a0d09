package linguist

import (
	"fmt"
	"strings"
)

// Status is the lifecycle tag of a translation.
type Status int

const (
	// Finished translations are current and used at lookup time.
	Finished Status = iota
	// Unfinished translations are missing or awaiting review. They are
	// still used when no finished record shares their key.
	Unfinished
	// Obsolete translations are kept for reference only and never
	// returned by a lookup.
	Obsolete
)

func (s Status) String() string {
	switch s {
	case Finished:
		return "finished"
	case Unfinished:
		return "unfinished"
	case Obsolete:
		return "obsolete"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// rank orders statuses for duplicate key resolution; higher wins.
func (s Status) rank() int {
	switch s {
	case Finished:
		return 2
	case Unfinished:
		return 1
	}
	return 0
}

// ParseStatus maps a status name to a Status. The empty string is
// Finished. The boolean result reports whether the name was known.
func ParseStatus(name string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "finished":
		return Finished, true
	case "unfinished":
		return Unfinished, true
	case "obsolete", "vanished":
		return Obsolete, true
	}
	return Finished, false
}

// Location records where a source string was found. It is informational only.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Translation holds either a single string or one string per plural form.
// The zero value is an empty single translation.
type Translation struct {
	plural bool
	forms  []string
}

// Single returns a non-plural translation.
func Single(text string) Translation {
	return Translation{forms: []string{text}}
}

// Plural returns a translation with one string per plural form, in the order
// of the locale's plural form indices.
func Plural(forms ...string) Translation {
	return Translation{plural: true, forms: append([]string(nil), forms...)}
}

// IsPlural reports whether t carries plural forms.
func (t Translation) IsPlural() bool {
	return t.plural
}

// Text returns the single string of t, or its first form if t is plural.
func (t Translation) Text() string {
	if len(t.forms) == 0 {
		return ""
	}
	return t.forms[0]
}

// Len returns the number of forms; a single translation has one.
func (t Translation) Len() int {
	if !t.plural && len(t.forms) == 0 {
		return 1
	}
	return len(t.forms)
}

// Form returns form i, or the empty string when i is out of range.
func (t Translation) Form(i int) string {
	if i < 0 || i >= len(t.forms) {
		return ""
	}
	return t.forms[i]
}

// Forms returns a copy of the plural forms, or nil for a single translation.
func (t Translation) Forms() []string {
	if !t.plural {
		return nil
	}
	return append([]string(nil), t.forms...)
}

// IsEmpty reports whether every form of t is empty.
func (t Translation) IsEmpty() bool {
	for _, f := range t.forms {
		if f != "" {
			return false
		}
	}
	return true
}

// Equal reports whether t and other hold the same kind and strings.
func (t Translation) Equal(other Translation) bool {
	if t.plural != other.plural {
		return false
	}
	if !t.plural {
		return t.Text() == other.Text()
	}
	if len(t.forms) != len(other.forms) {
		return false
	}
	for i := range t.forms {
		if t.forms[i] != other.forms[i] {
			return false
		}
	}
	return true
}

func (t Translation) String() string {
	if !t.plural {
		return t.Text()
	}
	return "[" + strings.Join(t.forms, " | ") + "]"
}

// Key is the resolution key of a message.
type Key struct {
	Context string
	Source  string
	Comment string
}

// Message is one translatable string of a context.
type Message struct {
	// Context is the name of the owning context.
	Context string
	Source  string
	// Comment disambiguates identical sources within one context.
	Comment string

	// ExtraComment and TranslatorComment are notes for translators.
	// They are carried for round trips and never used for lookups.
	ExtraComment      string
	TranslatorComment string
	// ID is an optional stable message identifier.
	ID string

	Locations   []Location
	Translation Translation
	Status      Status
}

// Key returns the resolution key of m.
func (m Message) Key() Key {
	return Key{Context: m.Context, Source: m.Source, Comment: m.Comment}
}

func (m Message) clone() Message {
	m.Locations = append([]Location(nil), m.Locations...)
	return m
}
