package linguist

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type poSuite struct{}

var _ = Suite(&poSuite{})

const samplePO = `msgid ""
msgstr ""
"Project-Id-Version: test\n"
"Language: pl\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"

#: main.go:10
msgid "Hello"
msgstr "Cześć"

#: dialog.cpp:12 dialog.cpp:40
msgctxt "Dialog"
msgid "&Cancel"
msgstr "&Anuluj"

msgctxt "Dialog|verb"
msgid "Open"
msgstr "Otwórz"

msgctxt "Dialog"
msgid "Open"
msgstr "Otwarte"

msgid "%n file"
msgid_plural "%n files"
msgstr[0] "%n plik"
msgstr[1] "%n pliki"
msgstr[2] "%n plików"

msgid "Untranslated"
msgstr ""
`

func (s *poSuite) TestParse(c *C) {
	cat, err := ParsePO([]byte(samplePO))
	c.Assert(err, IsNil)
	c.Check(cat.Language(), Equals, "pl")
	c.Check(cat.PluralRule().Forms, Equals, 3)
	c.Check(cat.Warnings(), HasLen, 0)

	c.Check(cat.Tr("", "Hello"), Equals, "Cześć")
	c.Check(cat.Tr("Dialog", "&Cancel"), Equals, "&Anuluj")
	c.Check(cat.TrC("Dialog", "Open", "verb"), Equals, "Otwórz")
	c.Check(cat.Tr("Dialog", "Open"), Equals, "Otwarte")
	c.Check(cat.TrN("", "%n file", 1), Equals, "1 plik")
	c.Check(cat.TrN("", "%n file", 3), Equals, "3 pliki")
	c.Check(cat.TrN("", "%n file", 5), Equals, "5 plików")
	c.Check(cat.Tr("", "Untranslated"), Equals, "Untranslated")

	contexts := cat.Contexts()
	c.Assert(contexts, HasLen, 2)
	c.Check(contexts[0].Name, Equals, "")
	c.Check(contexts[1].Name, Equals, "Dialog")
	c.Check(contexts[1].Messages, HasLen, 3)

	msg, ok := cat.Lookup(Key{Context: "Dialog", Source: "&Cancel"})
	c.Assert(ok, Equals, true)
	c.Check(msg.Locations, DeepEquals, []Location{{File: "dialog.cpp", Line: 12}, {File: "dialog.cpp", Line: 40}})

	msg, ok = cat.Lookup(Key{Source: "Untranslated"})
	c.Assert(ok, Equals, true)
	c.Check(msg.Status, Equals, Unfinished)
}

func (s *poSuite) TestParseReference(c *C) {
	c.Check(parseReference("main.go:10"), Equals, Location{File: "main.go", Line: 10})
	c.Check(parseReference(" c:/src/main.go:7 "), Equals, Location{File: "c:/src/main.go", Line: 7})
	c.Check(parseReference("main.go"), Equals, Location{File: "main.go"})
}

func (s *poSuite) TestParseMalformed(c *C) {
	for _, test := range []struct {
		data   string
		offset int64
		msg    string
	}{
		{"\x00\x01 msgid \"unterminated\nmsgstr garbage\"\"\"\n", 0, "unexpected line"},
		{"msgid \"Hello\"\nmsgstr \"Hallo\n", 14, "unterminated string"},
		{"msgid \"Hello\"\nmsgstr \"Hallo\\\"\n", 14, "unterminated string"},
		{"msgid \"Hello\"\nmsgstr\"Hallo\"\n", 14, "msgstr must be followed by a string"},
		{"msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[x] \"c\"\n", 27, `bad msgstr index "x"`},
		{"msgid \"a\"\nmsgstr[0 \"c\"\n", 10, "unterminated msgstr index"},
		{"# comment\nmsgid \"\xff\"\nmsgstr \"\"\n", 10, "invalid UTF-8"},
		{"msgid \"a\"\nmsgstr \"b\"\n<<<<<<< HEAD\n", 21, "unexpected line"},
	} {
		comment := Commentf("input %q", test.data)
		cat, err := ParsePO([]byte(test.data))
		c.Check(cat, IsNil, comment)
		var perr *ParseError
		if !c.Check(errors.As(err, &perr), Equals, true, comment) {
			continue
		}
		c.Check(perr.Format, Equals, "PO", comment)
		c.Check(perr.Offset, Equals, test.offset, comment)
		c.Check(perr.Msg, Equals, test.msg, comment)
	}
}

func (s *poSuite) TestValidateTolerated(c *C) {
	data := "\ufeff# translator notes\r\n" +
		"#, fuzzy\r\n" +
		"  msgid \"say \\\"hi\\\"\"\r\n" +
		"msgstr \"\"\r\n" +
		"\t\"sag \\\"hallo\\\\\"\r\n" +
		"\r\n" +
		"#~ msgid \"old\"\r\n" +
		"#~ msgstr \"alt\""
	c.Check(validatePO([]byte(data)), IsNil)
	c.Check(validatePO(nil), IsNil)

	cat, err := ParsePO([]byte("msgid \"say \\\"hi\\\"\"\nmsgstr \"sag \\\"hallo\\\"\"\n"))
	c.Assert(err, IsNil)
	c.Check(cat.Tr("", `say "hi"`), Equals, `sag "hallo"`)

	cat, err = ParsePO(nil)
	c.Assert(err, IsNil)
	c.Check(cat.Len(), Equals, 0)
}

func (s *poSuite) TestMalformedFileKeepsActiveCatalog(c *C) {
	path := filepath.Join(c.MkDir(), "app_pl.po")
	c.Assert(os.WriteFile(path, []byte(samplePO), 0644), IsNil)

	a := NewActive(nil)
	c.Assert(a.Reload(context.Background(), FileLoader(path)), IsNil)
	c.Check(a.Tr("", "Hello"), Equals, "Cześć")

	// a truncated file must not replace the loaded catalog
	c.Assert(os.WriteFile(path, []byte(samplePO[:len(samplePO)-2]), 0644), IsNil)
	err := a.Reload(context.Background(), FileLoader(path))
	c.Check(err, ErrorMatches, `.*app_pl.po: cannot parse PO catalog at offset \d+: unterminated string`)
	c.Check(a.Tr("", "Hello"), Equals, "Cześć")
	c.Check(a.Language(), Equals, "pl")
}

func (s *poSuite) TestParsePluralGap(c *C) {
	cat, err := ParsePO([]byte(`msgid ""
msgstr ""
"Language: pl\n"

msgid "%n file"
msgid_plural "%n files"
msgstr[0] "%n plik"
msgstr[2] "%n plików"
`))
	c.Assert(err, IsNil)

	msg, ok := cat.Lookup(Key{Source: "%n file"})
	c.Assert(ok, Equals, true)
	c.Check(msg.Translation.Forms(), DeepEquals, []string{"%n plik", "", "%n plików"})
	c.Check(cat.Warnings(), HasLen, 0)

	c.Check(cat.TrN("", "%n file", 1), Equals, "1 plik")
	c.Check(cat.TrN("", "%n file", 5), Equals, "5 plików")
	// the missing form falls back to the source
	c.Check(cat.TrN("", "%n file", 3), Equals, "3 file")
}
