// Package bencode implements a zero-copy view over bencoded values (byte
// strings, integers, lists, and dictionaries) plus a builder that emits
// canonical, key-sorted bencode.
//
// Parsing never copies the input buffer: byte-string values and raw
// sub-ranges are sliced directly out of the caller-owned buffer. Callers
// that need a Value to outlive the buffer it was parsed from must take an
// explicit owned copy (see Value.Clone).
package bencode

import (
	"sort"
	"strconv"
)

// Value is a parsed bencode value. Its zero value is an empty byte string;
// use the Kind method to discriminate.
type Value struct {
	kind  Kind
	bytes []byte       // valid when kind == KindBytes: slice of the original buffer
	i     int64        // valid when kind == KindInt
	list  []Value      // valid when kind == KindList
	dict  []DictEntry  // valid when kind == KindDict, always key-sorted
}

// DictEntry is a single key/value pair of a parsed dictionary.
type DictEntry struct {
	Key   string
	Value Value
}

// Kind returns the dynamic type of the value.
func (v Value) Kind() Kind { return v.kind }

// Bytes returns the byte-string payload. Only valid when Kind() == KindBytes.
func (v Value) Bytes() []byte { return v.bytes }

// Int returns the integer payload. Only valid when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// List returns the list elements. Only valid when Kind() == KindList.
func (v Value) List() []Value { return v.list }

// Dict returns the dictionary entries in ascending key order. Only valid
// when Kind() == KindDict.
func (v Value) Dict() []DictEntry { return v.dict }

// Lookup returns the value for key in a dictionary, or false if absent.
// Only valid when Kind() == KindDict.
func (v Value) Lookup(key string) (Value, bool) {
	entries := v.dict
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Key >= key })
	if i < len(entries) && entries[i].Key == key {
		return entries[i].Value, true
	}
	return Value{}, false
}

// GetBytes looks up key and type-checks it as a byte string.
func (v Value) GetBytes(key string) ([]byte, error) {
	val, ok := v.Lookup(key)
	if !ok {
		return nil, &KeyError{Key: key, Expected: KindBytes, Present: false}
	}
	if val.kind != KindBytes {
		return nil, &KeyError{Key: key, Expected: KindBytes, Present: true}
	}
	return val.bytes, nil
}

// GetInt looks up key and type-checks it as an integer.
func (v Value) GetInt(key string) (int64, error) {
	val, ok := v.Lookup(key)
	if !ok {
		return 0, &KeyError{Key: key, Expected: KindInt, Present: false}
	}
	if val.kind != KindInt {
		return 0, &KeyError{Key: key, Expected: KindInt, Present: true}
	}
	return val.i, nil
}

// GetList looks up key and type-checks it as a list.
func (v Value) GetList(key string) ([]Value, error) {
	val, ok := v.Lookup(key)
	if !ok {
		return nil, &KeyError{Key: key, Expected: KindList, Present: false}
	}
	if val.kind != KindList {
		return nil, &KeyError{Key: key, Expected: KindList, Present: true}
	}
	return val.list, nil
}

// GetDict looks up key and type-checks it as a dictionary.
func (v Value) GetDict(key string) (Value, error) {
	val, ok := v.Lookup(key)
	if !ok {
		return Value{}, &KeyError{Key: key, Expected: KindDict, Present: false}
	}
	if val.kind != KindDict {
		return Value{}, &KeyError{Key: key, Expected: KindDict, Present: true}
	}
	return val, nil
}

// Clone returns a deep, owned copy of v that no longer references the
// buffer it was parsed from.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBytes:
		b := make([]byte, len(v.bytes))
		copy(b, v.bytes)
		return Value{kind: KindBytes, bytes: b}
	case KindList:
		l := make([]Value, len(v.list))
		for i, e := range v.list {
			l[i] = e.Clone()
		}
		return Value{kind: KindList, list: l}
	case KindDict:
		d := make([]DictEntry, len(v.dict))
		for i, e := range v.dict {
			d[i] = DictEntry{Key: e.Key, Value: e.Value.Clone()}
		}
		return Value{kind: KindDict, dict: d}
	default:
		return v
	}
}

// Parse decodes exactly one bencode value from the front of data and
// returns it along with the number of bytes consumed.
func Parse(data []byte) (Value, int, error) {
	if len(data) == 0 {
		return Value{}, 0, &SyntaxError{Offset: 0, Reason: "empty input"}
	}

	switch data[0] {
	case 'i':
		return parseInt(data)
	case 'l':
		return parseList(data)
	case 'd':
		return parseDict(data)
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return parseBytes(data)
	default:
		return Value{}, 0, &SyntaxError{Offset: 0, Reason: "unexpected leading byte"}
	}
}

func parseInt(data []byte) (Value, int, error) {
	end := indexByte(data, 1, 'e')
	if end < 0 {
		return Value{}, 0, &SyntaxError{Offset: 0, Reason: "unterminated integer"}
	}
	n, err := strconv.ParseInt(string(data[1:end]), 10, 64)
	if err != nil {
		return Value{}, 0, &SyntaxError{Offset: 1, Reason: "invalid integer: " + err.Error()}
	}
	return Value{kind: KindInt, i: n}, end + 1, nil
}

func parseBytes(data []byte) (Value, int, error) {
	colon := indexByte(data, 0, ':')
	if colon < 0 {
		return Value{}, 0, &SyntaxError{Offset: 0, Reason: "missing length delimiter"}
	}
	n, err := strconv.ParseInt(string(data[:colon]), 10, 64)
	if err != nil || n < 0 {
		return Value{}, 0, &SyntaxError{Offset: 0, Reason: "invalid byte-string length"}
	}
	start := colon + 1
	end := start + int(n)
	if end < start || end > len(data) {
		return Value{}, 0, &SyntaxError{Offset: start, Reason: "byte string runs past end of input"}
	}
	return Value{kind: KindBytes, bytes: data[start:end]}, end, nil
}

func parseList(data []byte) (Value, int, error) {
	pos := 1
	var elems []Value
	for {
		if pos >= len(data) {
			return Value{}, 0, &SyntaxError{Offset: pos, Reason: "unterminated list"}
		}
		if data[pos] == 'e' {
			pos++
			break
		}
		v, n, err := Parse(data[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, v)
		pos += n
	}
	return Value{kind: KindList, list: elems}, pos, nil
}

func parseDict(data []byte) (Value, int, error) {
	pos := 1
	var entries []DictEntry
	lastKey := ""
	for {
		if pos >= len(data) {
			return Value{}, 0, &SyntaxError{Offset: pos, Reason: "unterminated dict"}
		}
		if data[pos] == 'e' {
			pos++
			break
		}
		keyVal, n, err := parseBytes(data[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n
		key := string(keyVal.bytes)
		if len(entries) > 0 && key < lastKey {
			// Non-canonical input: keep parsing (be liberal), but accessors
			// still binary-search assuming ascending order once re-sorted.
		}
		val, n2, err := Parse(data[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n2
		entries = append(entries, DictEntry{Key: key, Value: val})
		lastKey = key
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return Value{kind: KindDict, dict: entries}, pos, nil
}

func indexByte(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}
