package bencode

import (
	"sort"
	"strconv"
)

// Builder holds a bencode value constructed in memory before encoding it.
// Byte strings passed to NewBytes are referenced, not copied.
type Builder struct {
	v Value
}

// NewBytes wraps a byte string.
func NewBytes(b []byte) Builder { return Builder{Value{kind: KindBytes, bytes: b}} }

// NewString wraps a byte string given as a Go string.
func NewString(s string) Builder { return NewBytes([]byte(s)) }

// NewInt wraps an integer.
func NewInt(n int64) Builder { return Builder{Value{kind: KindInt, i: n}} }

// NewList wraps a list of already-built values.
func NewList(items ...Builder) Builder {
	list := make([]Value, len(items))
	for i, it := range items {
		list[i] = it.v
	}
	return Builder{Value{kind: KindList, list: list}}
}

// DictBuilder accumulates key/value pairs and sorts them by key at Build
// time, guaranteeing the canonical re-encode order required by §4.2.
type DictBuilder struct {
	entries map[string]Builder
}

// NewDict starts an empty dictionary builder.
func NewDict() *DictBuilder {
	return &DictBuilder{entries: make(map[string]Builder)}
}

// Set inserts or overwrites key with val and returns the receiver for
// chaining.
func (d *DictBuilder) Set(key string, val Builder) *DictBuilder {
	d.entries[key] = val
	return d
}

// SetBytes is a convenience wrapper for Set(key, NewBytes(val)).
func (d *DictBuilder) SetBytes(key string, val []byte) *DictBuilder {
	return d.Set(key, NewBytes(val))
}

// SetString is a convenience wrapper for Set(key, NewString(val)).
func (d *DictBuilder) SetString(key string, val string) *DictBuilder {
	return d.Set(key, NewString(val))
}

// SetInt is a convenience wrapper for Set(key, NewInt(val)).
func (d *DictBuilder) SetInt(key string, val int64) *DictBuilder {
	return d.Set(key, NewInt(val))
}

// Build finalizes the dictionary into a Builder, with keys in ascending
// byte order.
func (d *DictBuilder) Build() Builder {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]DictEntry, len(keys))
	for i, k := range keys {
		entries[i] = DictEntry{Key: k, Value: d.entries[k].v}
	}
	return Builder{Value{kind: KindDict, dict: entries}}
}

// Value returns the built value as a read-only view.
func (b Builder) Value() Value { return b.v }

// Encode appends the canonical bencode representation of b to dst and
// returns the extended slice.
func (b Builder) Encode(dst []byte) []byte { return appendValue(dst, b.v) }

// Marshal returns the canonical bencode representation as a new slice.
func (b Builder) Marshal() []byte { return appendValue(nil, b.v) }

func appendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case KindInt:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.i, 10)
		dst = append(dst, 'e')
	case KindBytes:
		dst = strconv.AppendInt(dst, int64(len(v.bytes)), 10)
		dst = append(dst, ':')
		dst = append(dst, v.bytes...)
	case KindList:
		dst = append(dst, 'l')
		for _, e := range v.list {
			dst = appendValue(dst, e)
		}
		dst = append(dst, 'e')
	case KindDict:
		dst = append(dst, 'd')
		// v.dict is always key-sorted: either parsed canonically (Parse
		// sorts on read) or produced by DictBuilder.Build.
		for _, e := range v.dict {
			dst = strconv.AppendInt(dst, int64(len(e.Key)), 10)
			dst = append(dst, ':')
			dst = append(dst, e.Key...)
			dst = appendValue(dst, e.Value)
		}
		dst = append(dst, 'e')
	}
	return dst
}

// Marshal encodes an already-parsed Value canonically (key-sorted, since
// Parse always sorts dict entries on read).
func Marshal(v Value) []byte { return appendValue(nil, v) }
