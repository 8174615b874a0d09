package linguist

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	moMagic        = 0x950412de
	moMagicSwapped = 0xde120495
	moHeaderSize   = 7 * 4
)

// moHeader is the fixed part of an MO file following the magic number.
type moHeader struct {
	revision    uint32
	count       uint32
	sourceTable uint32
	targetTable uint32
	hashSize    uint32
	hashTable   uint32
}

func readMOHeader(data []byte, order binary.ByteOrder) moHeader {
	word := func(i int) uint32 { return order.Uint32(data[4*i:]) }
	return moHeader{
		revision:    word(1),
		count:       word(2),
		sourceTable: word(3),
		targetTable: word(4),
		hashSize:    word(5),
		hashTable:   word(6),
	}
}

// supported reports whether the major revision is one this reader knows.
func (h moHeader) supported() bool {
	major := h.revision >> 16
	return major == 0 || major == 1
}

// gettext joins msgctxt and msgid with EOT, and msgid and msgid_plural
// (or the plural msgstrs) with NUL.
const (
	contextSeparator = "\x04"
	pluralSeparator  = "\x00"
)

type mofile struct {
	data  []byte
	order binary.ByteOrder

	numStrings int
	origTab    []byte
	transTab   []byte
}

func (mo *mofile) entry(table []byte, idx int) []byte {
	strLen := mo.order.Uint32(table[8*idx:])
	strOffset := mo.order.Uint32(table[8*idx+4:])
	return mo.data[strOffset : strOffset+strLen]
}

func moError(offset int64, format string, args ...any) error {
	return &ParseError{Format: "MO", Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func validateStringTable(data []byte, table []byte, numStrings int, order binary.ByteOrder, offset uint32) error {
	for i := 0; i < numStrings; i++ {
		strLen := order.Uint32(table[8*i:])
		strOffset := order.Uint32(table[8*i+4:])
		if uint64(strLen)+uint64(strOffset) > uint64(len(data)) {
			return moError(int64(offset)+int64(8*i), "string %d data (len=%x, offset=%x) is out of bounds", i, strLen, strOffset)
		}
	}
	return nil
}

func validateHashTable(table []byte, numStrings int, order binary.ByteOrder, offset uint32) error {
	for i := 0; i < len(table)/4; i++ {
		strIndex := order.Uint32(table[4*i:])
		// hash entries are either zero or a string index
		// incremented by one
		if int(strIndex) >= numStrings+1 {
			return moError(int64(offset)+int64(4*i), "hash table is corrupt")
		}
	}
	return nil
}

func tableInBounds(data []byte, offset, size uint32) bool {
	return uint64(offset)+uint64(size) <= uint64(len(data))
}

// ParseMO parses a compiled gettext catalog. Message contexts become catalog
// contexts; messages without one are placed in the context named "".
func ParseMO(data []byte, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	if len(data) < moHeaderSize {
		return nil, moError(0, "message catalogue is too short")
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch magic := order.Uint32(data); magic {
	case moMagic:
	case moMagicSwapped:
		order = binary.BigEndian
	default:
		return nil, moError(0, "wrong magic: %d", magic)
	}
	h := readMOHeader(data, order)
	if !h.supported() {
		return nil, moError(4, "unsupported version: %d.%d", h.revision>>16, h.revision&0xffff)
	}
	if uint64(h.count) > uint64(len(data))/8 {
		return nil, moError(8, "too many strings in catalog")
	}
	numStrings := int(h.count)

	if !tableInBounds(data, h.sourceTable, 8*h.count) {
		return nil, moError(12, "original strings table out of bounds")
	}
	origTab := data[h.sourceTable : h.sourceTable+8*h.count]
	if err := validateStringTable(data, origTab, numStrings, order, h.sourceTable); err != nil {
		return nil, err
	}

	if !tableInBounds(data, h.targetTable, 8*h.count) {
		return nil, moError(16, "translated strings table out of bounds")
	}
	transTab := data[h.targetTable : h.targetTable+8*h.count]
	if err := validateStringTable(data, transTab, numStrings, order, h.targetTable); err != nil {
		return nil, err
	}

	if h.hashSize > 2 {
		if uint64(h.hashSize) > uint64(len(data))/4 || !tableInBounds(data, h.hashTable, 4*h.hashSize) {
			return nil, moError(24, "hash table out of bounds")
		}
		hashTab := data[h.hashTable : h.hashTable+4*h.hashSize]
		if err := validateHashTable(hashTab, numStrings, order, h.hashTable); err != nil {
			return nil, err
		}
	}

	mo := &mofile{
		data:       data,
		order:      order,
		numStrings: numStrings,
		origTab:    origTab,
		transTab:   transTab,
	}
	return mo.catalog(o)
}

func (mo *mofile) catalog(o *options) (*Catalog, error) {
	var contexts []Context
	byName := make(map[string]int)
	for i := 0; i < mo.numStrings; i++ {
		key := string(mo.entry(mo.origTab, i))
		value := string(mo.entry(mo.transTab, i))
		if key == "" {
			readHeader(o, parseHeader(value))
			continue
		}

		ctxName, msgid := "", key
		if sep := strings.Index(key, contextSeparator); sep >= 0 {
			ctxName, msgid = key[:sep], key[sep+1:]
		}
		msg := Message{Context: ctxName, Source: msgid}
		if sep := strings.Index(msgid, pluralSeparator); sep >= 0 {
			msg.Source = msgid[:sep]
			msg.Translation = Plural(strings.Split(value, pluralSeparator)...)
		} else {
			msg.Translation = Single(value)
		}
		if msg.Translation.IsEmpty() {
			msg.Status = Unfinished
		}

		pos, ok := byName[ctxName]
		if !ok {
			pos = len(contexts)
			byName[ctxName] = pos
			contexts = append(contexts, Context{Name: ctxName})
		}
		contexts[pos].Messages = append(contexts[pos].Messages, msg)
	}

	c, err := o.build(contexts)
	if err != nil {
		return nil, &ParseError{Format: "MO", Err: err}
	}
	return c, nil
}

// parseHeader reads the "Key: value" lines of a gettext header entry.
// Continuation lines are appended to the previous value.
func parseHeader(info string) map[string]string {
	headers := make(map[string]string)
	lastk := ""
	for _, line := range strings.Split(info, "\n") {
		item := strings.TrimSpace(line)
		if len(item) == 0 {
			continue
		}
		if k, v, ok := strings.Cut(item, ":"); ok {
			k = strings.ToLower(strings.TrimSpace(k))
			headers[k] = strings.TrimSpace(v)
			lastk = k
		} else if len(lastk) != 0 {
			headers[lastk] += "\n" + item
		}
	}
	return headers
}

// readHeader applies the Language and Plural-Forms headers. A bad
// Plural-Forms value is reported and the built-in rule used instead.
func readHeader(o *options, headers map[string]string) {
	if lang := headers["language"]; lang != "" {
		o.language = lang
	}
	if pf := headers["plural-forms"]; pf != "" && o.plural == nil {
		rule, err := ParsePluralForms(pf)
		if err != nil {
			o.warn(Warning{Kind: SchemaWarning, Msg: err.Error()})
			return
		}
		o.plural = rule
	}
}
