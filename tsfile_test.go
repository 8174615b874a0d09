package linguist

import (
	"errors"
	"strings"

	. "gopkg.in/check.v1"
)

type tsSuite struct{}

var _ = Suite(&tsSuite{})

const dialogTS = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="ja_JP" sourcelanguage="en_US">
<context>
    <name>Dialog</name>
    <message>
        <location filename="dialog.cpp" line="12"/>
        <source>&amp;Cancel</source>
        <translation>キャンセル</translation>
    </message>
    <message>
        <location filename="dialog.cpp" line="30"/>
        <source>&amp;Cancel</source>
        <comment>old</comment>
        <translation type="obsolete">取消</translation>
    </message>
    <message numerus="yes">
        <location line="+4"/>
        <source>%n file(s) copied</source>
        <extracomment>shown after copying</extracomment>
        <translatorcomment>checked</translatorcomment>
        <translation>
            <numerusform>%n 個のファイルをコピーしました</numerusform>
        </translation>
    </message>
    <message>
        <source>Later</source>
        <translation type="unfinished"></translation>
    </message>
    <message>
        <source>Never translated</source>
    </message>
</context>
<context>
    <name>Main</name>
    <message id="main.title">
        <source>Hello %1</source>
        <oldsource>Hi %1</oldsource>
        <translation>こんにちは %1</translation>
    </message>
</context>
</TS>
`

func (s *tsSuite) TestParse(c *C) {
	cat, err := ParseTS([]byte(dialogTS))
	c.Assert(err, IsNil)
	c.Check(cat.Language(), Equals, "ja_JP")
	c.Check(cat.SourceLanguage(), Equals, "en_US")
	c.Check(cat.Warnings(), HasLen, 0)
	c.Check(cat.Len(), Equals, 6)

	ctx, ok := cat.Context("Dialog")
	c.Assert(ok, Equals, true)
	c.Assert(ctx.Messages, HasLen, 5)

	c.Check(ctx.Messages[0], DeepEquals, Message{
		Context:     "Dialog",
		Source:      "&Cancel",
		Locations:   []Location{{File: "dialog.cpp", Line: 12}},
		Translation: Single("キャンセル"),
		Status:      Finished,
	})
	c.Check(ctx.Messages[1].Comment, Equals, "old")
	c.Check(ctx.Messages[1].Status, Equals, Obsolete)

	plural := ctx.Messages[2]
	c.Check(plural.Translation.IsPlural(), Equals, true)
	c.Check(plural.Translation.Forms(), DeepEquals, []string{"%n 個のファイルをコピーしました"})
	c.Check(plural.Locations, DeepEquals, []Location{{File: "dialog.cpp", Line: 34}})
	c.Check(plural.ExtraComment, Equals, "shown after copying")
	c.Check(plural.TranslatorComment, Equals, "checked")

	c.Check(ctx.Messages[3].Status, Equals, Unfinished)
	c.Check(ctx.Messages[4].Status, Equals, Unfinished)
	c.Check(ctx.Messages[4].Translation.IsEmpty(), Equals, true)

	msg, ok := cat.Lookup(Key{Context: "Main", Source: "Hello %1"})
	c.Assert(ok, Equals, true)
	c.Check(msg.ID, Equals, "main.title")
}

func (s *tsSuite) TestDialogScenario(c *C) {
	cat, err := Load([]byte(dialogTS))
	c.Assert(err, IsNil)

	c.Check(cat.Tr("Dialog", "&Cancel"), Equals, "キャンセル")
	c.Check(cat.TrC("Dialog", "&Cancel", "old"), Equals, "&Cancel")
	c.Check(cat.Tr("Main", "Hello %1", "世界"), Equals, "こんにちは 世界")
	c.Check(cat.TrN("Dialog", "%n file(s) copied", 3), Equals, "3 個のファイルをコピーしました")
	c.Check(cat.Tr("Dialog", "Later"), Equals, "Later")
	c.Check(cat.Tr("Nowhere", "Anything"), Equals, "Anything")
}

func (s *tsSuite) TestObsoleteNeverShadowsFinished(c *C) {
	for _, doc := range []string{
		`<TS><context><name>C</name>
<message><source>Save</source><translation type="obsolete">old</translation></message>
<message><source>Save</source><translation>new</translation></message>
</context></TS>`,
		`<TS><context><name>C</name>
<message><source>Save</source><translation>new</translation></message>
<message><source>Save</source><translation type="obsolete">old</translation></message>
</context></TS>`,
	} {
		cat, err := ParseTS([]byte(doc))
		c.Assert(err, IsNil)
		c.Check(cat.Tr("C", "Save"), Equals, "new")
	}
}

func (s *tsSuite) TestRichText(c *C) {
	cat, err := ParseTS([]byte(`<TS language="de">
<context><name>C</name>
<message>
<source>Press <b>Esc</b><byte value="x1b"/></source>
<translation><lengthvariant>Drücken Sie <b>Esc</b></lengthvariant><lengthvariant>Esc</lengthvariant></translation>
</message>
</context>
</TS>`))
	c.Assert(err, IsNil)
	c.Check(cat.Warnings(), HasLen, 0)

	msgs := cat.Contexts()[0].Messages
	c.Assert(msgs, HasLen, 1)
	c.Check(msgs[0].Source, Equals, "Press <b>Esc</b>\x1b")
	c.Check(msgs[0].Translation.Text(), Equals, "Drücken Sie <b>Esc</b>")
	c.Check(cat.Tr("C", "Press <b>Esc</b>\x1b"), Equals, "Drücken Sie <b>Esc</b>")
}

func (s *tsSuite) TestLengthVariantDropsLaterMarkup(c *C) {
	cat, err := ParseTS([]byte(`<TS language="de"><context><name>C</name>
<message><source>Open</source>
<translation><lengthvariant>Öffnen</lengthvariant><b>ignored</b><byte value="x1b"/> tail</translation>
</message>
</context></TS>`))
	c.Assert(err, IsNil)
	c.Check(cat.Tr("C", "Open"), Equals, "Öffnen")
}

func (s *tsSuite) TestNumerusWithPlainTranslation(c *C) {
	cat, err := ParseTS([]byte(`<TS language="de"><context><name>A</name>
<message numerus="yes"><source>%n file(s)</source><translation>%n Datei(en)</translation></message>
<message numerus="yes"><source>%n dir(s)</source><translation type="unfinished">  </translation></message>
</context></TS>`))
	c.Assert(err, IsNil)

	msg, ok := cat.Lookup(Key{Context: "A", Source: "%n file(s)"})
	c.Assert(ok, Equals, true)
	c.Check(msg.Translation.IsPlural(), Equals, true)
	c.Check(msg.Translation.Forms(), DeepEquals, []string{"%n Datei(en)"})
	c.Check(cat.TrN("A", "%n file(s)", 1), Equals, "1 Datei(en)")
	c.Check(cat.TrN("A", "%n file(s)", 3), Equals, "3 Datei(en)")

	// German wants two forms, so both messages are reported
	warnings := cat.Warnings()
	c.Assert(warnings, HasLen, 2)
	c.Check(warnings[0].Kind, Equals, PluralFormMismatch)
	c.Check(warnings[0].Source, Equals, "%n file(s)")

	// blank text is no translation at all
	msg, ok = cat.Lookup(Key{Context: "A", Source: "%n dir(s)"})
	c.Assert(ok, Equals, true)
	c.Check(msg.Translation.Len(), Equals, 0)
	c.Check(cat.TrN("A", "%n dir(s)", 2), Equals, "2 dir(s)")
}

func (s *tsSuite) TestSchemaWarnings(c *C) {
	cat, err := ParseTS([]byte(`<TS language="de" flavour="x">
<context><name>C</name>
<message shiny="yes">
<source>One</source>
<sparkle/>
<translation type="reviewed">Eins</translation>
</message>
</context>
</TS>`))
	c.Assert(err, IsNil)
	c.Check(cat.Tr("C", "One"), Equals, "Eins")

	warnings := cat.Warnings()
	c.Assert(warnings, HasLen, 4)
	for _, w := range warnings {
		c.Check(w.Kind, Equals, SchemaWarning)
	}
	c.Check(warnings[3].Source, Equals, "One")
	c.Check(warnings[3].Msg, Matches, `unknown translation type "reviewed".*`)
}

func (s *tsSuite) TestParseErrors(c *C) {
	for _, test := range []struct {
		doc    string
		msg    string
		offset int64
	}{
		{`<resources/>`, "unexpected root element <resources>", 0},
		{`  <TS></TS><TS></TS>`, "unexpected <TS> after the TS element", 11},
		{`<TS><context><message><source>x</source></message></context></TS>`, "context without a name", 4},
		{`<TS><context><name>C</name><message><translation>x</translation></message></context></TS>`, "message without a source", 27},
		{``, "no TS element found", 0},
		{`text <TS/>`, "unexpected text outside the TS element", 0},
	} {
		comment := Commentf("document %q", test.doc)
		_, err := ParseTS([]byte(test.doc))
		var perr *ParseError
		if !c.Check(errors.As(err, &perr), Equals, true, comment) {
			continue
		}
		c.Check(perr.Format, Equals, "TS", comment)
		c.Check(perr.Msg, Equals, test.msg, comment)
		c.Check(perr.Offset, Equals, test.offset, comment)
	}

	// malformed XML is reported by the decoder
	for _, doc := range []string{
		`<TS><context><name>C</name></TS>`,
		`<TS><context><name>C</name>`,
		`<TS><context><name>C</name><message><source>&bogus;</source>`,
	} {
		_, err := ParseTS([]byte(doc))
		var perr *ParseError
		if c.Check(errors.As(err, &perr), Equals, true, Commentf("document %q", doc)) {
			c.Check(perr.Err, NotNil)
		}
	}
}

func (s *tsSuite) TestStrictPluralsOffset(c *C) {
	doc := `<TS language="ru"><context><name>C</name>
<message numerus="yes"><source>%n</source><translation><numerusform>a</numerusform></translation></message>
</context></TS>`
	_, err := ParseTS([]byte(doc), WithStrictPlurals())
	var perr *ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
	c.Check(perr.Offset, Equals, int64(strings.Index(doc, "<message")))
	var mismatch *PluralMismatchError
	c.Check(errors.As(err, &mismatch), Equals, true)
}

func (s *tsSuite) TestWithLanguage(c *C) {
	doc := []byte(`<TS><context><name>C</name><message><source>a</source><translation>b</translation></message></context></TS>`)
	cat, err := ParseTS(doc, WithLanguage("fr_FR"))
	c.Assert(err, IsNil)
	c.Check(cat.Language(), Equals, "fr_FR")

	cat, err = ParseTS([]byte(dialogTS), WithLanguage("fr_FR"))
	c.Assert(err, IsNil)
	c.Check(cat.Language(), Equals, "ja_JP")
}

func (s *tsSuite) TestCharset(c *C) {
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<TS language="de"><context><name>C</name><message><source>Gr`), 0xfc)
	doc = append(doc, []byte(`n</source><translation>Gr`)...)
	doc = append(doc, 0xfc)
	doc = append(doc, []byte(`n!</translation></message></context></TS>`)...)

	cat, err := ParseTS(doc)
	c.Assert(err, IsNil)
	c.Check(cat.Tr("C", "Grün"), Equals, "Grün!")
}
