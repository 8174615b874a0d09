package linguist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"

	. "gopkg.in/check.v1"
)

type moSuite struct{}

var _ = Suite(&moSuite{})

type moEntry struct {
	id, str string
}

// makeMO builds a catalog the way msgfmt lays it out: header, both string
// tables, no hash table, then the string data.
func makeMO(order binary.ByteOrder, entries []moEntry) []byte {
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	const headerSize = 28
	n := uint32(len(entries))
	origTab := uint32(headerSize)
	transTab := origTab + 8*n
	dataStart := transTab + 8*n

	var data bytes.Buffer
	var orig, trans []uint32
	for _, e := range entries {
		orig = append(orig, uint32(len(e.id)), dataStart+uint32(data.Len()))
		data.WriteString(e.id)
		data.WriteByte(0)
	}
	for _, e := range entries {
		trans = append(trans, uint32(len(e.str)), dataStart+uint32(data.Len()))
		data.WriteString(e.str)
		data.WriteByte(0)
	}

	var buf bytes.Buffer
	binary.Write(&buf, order, []uint32{moMagic, 0, n, origTab, transTab, 0, 0})
	binary.Write(&buf, order, orig)
	binary.Write(&buf, order, trans)
	buf.Write(data.Bytes())
	return buf.Bytes()
}

var moEntries = []moEntry{
	{"", "Project-Id-Version: test\nLanguage: ru\nPlural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"},
	{"greeting", "Привет"},
	{"Dialog\x04&Cancel", "&Отмена"},
	{"%n file\x00%n files", "%n файл\x00%n файла\x00%n файлов"},
	{"untranslated", ""},
}

func (s *moSuite) TestParse(c *C) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		cat, err := ParseMO(makeMO(order, append([]moEntry(nil), moEntries...)))
		c.Assert(err, IsNil, Commentf("%v", order))
		c.Check(cat.Language(), Equals, "ru")
		c.Check(cat.PluralRule().Forms, Equals, 3)
		c.Check(cat.Warnings(), HasLen, 0)

		c.Check(cat.Tr("", "greeting"), Equals, "Привет")
		c.Check(cat.Tr("Dialog", "&Cancel"), Equals, "&Отмена")
		c.Check(cat.TrN("", "%n file", 5), Equals, "5 файлов")
		c.Check(cat.TrN("", "%n file", 22), Equals, "22 файла")
		c.Check(cat.Tr("", "untranslated"), Equals, "untranslated")

		msg, ok := cat.Lookup(Key{Source: "untranslated"})
		c.Assert(ok, Equals, true)
		c.Check(msg.Status, Equals, Unfinished)
		c.Check(Report(cat).Counts, Equals, Counts{Finished: 3, Unfinished: 1})
	}
}

func (s *moSuite) TestPluralRuleOption(c *C) {
	rule, err := NewPluralRule(2, "n != 1")
	c.Assert(err, IsNil)
	cat, err := ParseMO(makeMO(binary.LittleEndian, append([]moEntry(nil), moEntries...)), WithPluralRule(rule))
	c.Assert(err, IsNil)
	c.Check(cat.PluralRule(), Equals, rule)
	c.Check(cat.Warnings(), HasLen, 1)
	c.Check(cat.Warnings()[0].Kind, Equals, PluralFormMismatch)
}

func (s *moSuite) TestBadPluralFormsHeader(c *C) {
	cat, err := ParseMO(makeMO(binary.LittleEndian, []moEntry{
		{"", "Language: de\nPlural-Forms: nplurals=x; plural=n;\n"},
		{"a", "b"},
	}))
	c.Assert(err, IsNil)
	c.Check(cat.PluralRule().Forms, Equals, 2)
	c.Assert(cat.Warnings(), HasLen, 1)
	c.Check(cat.Warnings()[0].Kind, Equals, SchemaWarning)
}

func (s *moSuite) TestParseHeader(c *C) {
	c.Check(parseHeader("Language: de\nX-Multi: one\n two\nbroken\n"), DeepEquals, map[string]string{
		"language": "de",
		"x-multi":  "one\ntwo\nbroken",
	})
}

func (s *moSuite) TestCorrupt(c *C) {
	good := makeMO(binary.LittleEndian, []moEntry{{"a", "b"}})

	for _, test := range []struct {
		data   []byte
		msg    string
		offset int64
	}{
		{good[:20], "message catalogue is too short", 0},
		{append([]byte{1, 2, 3, 4}, good[4:]...), "wrong magic: 67305985", 0},
		{patch(good, 4, 2<<16), "unsupported version: 2.0", 4},
		{patch(good, 8, 1<<20), "too many strings in catalog", 8},
		{patch(good, 12, 1000), "original strings table out of bounds", 12},
		{patch(good, 16, 1000), "translated strings table out of bounds", 16},
		{patch(good, 20, 1000), "hash table out of bounds", 24},
		{patch(good, 28, 1000), "string 0 data (len=3e8, offset=2c) is out of bounds", 28},
	} {
		_, err := ParseMO(test.data)
		var perr *ParseError
		if !c.Check(errors.As(err, &perr), Equals, true, Commentf("%s", test.msg)) {
			continue
		}
		c.Check(perr.Format, Equals, "MO")
		c.Check(perr.Msg, Equals, test.msg)
		c.Check(perr.Offset, Equals, test.offset)
	}
}

func patch(data []byte, offset int, value uint32) []byte {
	out := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(out[offset:], value)
	return out
}
