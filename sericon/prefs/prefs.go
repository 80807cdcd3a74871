// Package prefs is a small namespaced key/value store kept in the last erase
// block of a hal.Flash.
//
// The block holds one record:
//
//	magic "SRCP" | uint32 LE payload length | uint32 LE CRC-32 (IEEE) | payload
//
// The payload is one entry per line, "namespace\tkey\ttype\tvalue", with type
// "i" (decimal int) or "f" (float64, shortest 'g' form). Every Put rewrites
// the block.
package prefs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strconv"
	"strings"

	"sericon/hal"
)

const (
	magic      = "SRCP"
	headerSize = 12

	typeInt   = "i"
	typeFloat = "f"
)

var (
	ErrClosed   = errors.New("prefs: closed")
	ErrTooLarge = errors.New("prefs: record does not fit in one erase block")
	ErrBadKey   = errors.New("prefs: invalid namespace or key")
	ErrNoFlash  = errors.New("prefs: no flash")
)

type entryKey struct {
	ns, key string
}

type entry struct {
	typ   string
	value string
}

// Store is the in-memory view of the record plus its flash location.
type Store struct {
	flash  hal.Flash
	logger hal.Logger
	off    uint32
	block  uint32

	entries map[entryKey]entry
}

// Open reads the record from flash. Blank or corrupt storage opens as an
// empty store; the reason is logged.
func Open(flash hal.Flash, logger hal.Logger) (*Store, error) {
	if flash == nil {
		return nil, ErrNoFlash
	}
	block := flash.EraseBlockBytes()
	size := flash.SizeBytes()
	if block == 0 || size < block {
		return nil, fmt.Errorf("prefs: flash size %d, erase block %d: %w", size, block, hal.ErrNotImplemented)
	}
	s := &Store{
		flash:   flash,
		logger:  logger,
		off:     size - block,
		block:   block,
		entries: make(map[entryKey]entry),
	}
	if err := s.load(); err != nil {
		s.logf("prefs: %v, using defaults", err)
	}
	return s, nil
}

func (s *Store) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.WriteLineString(fmt.Sprintf(format, args...))
}

var errBlank = errors.New("no stored preferences")

func (s *Store) load() error {
	hdr := make([]byte, headerSize)
	if _, err := s.flash.ReadAt(hdr, s.off); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if string(hdr[:4]) != magic {
		if bytes.Count(hdr[:4], []byte{0xFF}) == 4 {
			return errBlank
		}
		return fmt.Errorf("corrupt record: bad magic %q", hdr[:4])
	}
	n := binary.LittleEndian.Uint32(hdr[4:8])
	sum := binary.LittleEndian.Uint32(hdr[8:12])
	if n > s.block-headerSize {
		return fmt.Errorf("corrupt record: length %d", n)
	}
	payload := make([]byte, n)
	if _, err := s.flash.ReadAt(payload, s.off+headerSize); err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return errors.New("corrupt record: checksum mismatch")
	}

	entries, err := decode(payload)
	if err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func decode(payload []byte) (map[entryKey]entry, error) {
	entries := make(map[entryKey]entry)
	for i, line := range strings.Split(string(payload), "\n") {
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 4 {
			return nil, fmt.Errorf("corrupt record: line %d", i+1)
		}
		switch f[2] {
		case typeInt:
			if _, err := strconv.Atoi(f[3]); err != nil {
				return nil, fmt.Errorf("corrupt record: line %d: %w", i+1, err)
			}
		case typeFloat:
			if _, err := strconv.ParseFloat(f[3], 64); err != nil {
				return nil, fmt.Errorf("corrupt record: line %d: %w", i+1, err)
			}
		default:
			return nil, fmt.Errorf("corrupt record: line %d: type %q", i+1, f[2])
		}
		entries[entryKey{ns: f[0], key: f[1]}] = entry{typ: f[2], value: f[3]}
	}
	return entries, nil
}

func (s *Store) encode() []byte {
	keys := make([]entryKey, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ns != keys[j].ns {
			return keys[i].ns < keys[j].ns
		}
		return keys[i].key < keys[j].key
	})

	var b strings.Builder
	for _, k := range keys {
		e := s.entries[k]
		b.WriteString(k.ns)
		b.WriteByte('\t')
		b.WriteString(k.key)
		b.WriteByte('\t')
		b.WriteString(e.typ)
		b.WriteByte('\t')
		b.WriteString(e.value)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// flush erases the block and writes the current record.
func (s *Store) flush() error {
	payload := s.encode()
	if len(payload) > int(s.block-headerSize) {
		return ErrTooLarge
	}
	rec := make([]byte, headerSize+len(payload))
	copy(rec, magic)
	binary.LittleEndian.PutUint32(rec[4:8], uint32(len(payload)))
	binary.LittleEndian.PutUint32(rec[8:12], crc32.ChecksumIEEE(payload))
	copy(rec[headerSize:], payload)

	if err := s.flash.Erase(s.off, s.block); err != nil {
		return fmt.Errorf("prefs: erase: %w", err)
	}
	if _, err := s.flash.WriteAt(rec, s.off); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	return nil
}

func validName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "\t\n")
}

func (s *Store) put(ns, key string, e entry) error {
	if !validName(ns) || !validName(key) {
		return ErrBadKey
	}
	k := entryKey{ns: ns, key: key}
	prev, had := s.entries[k]
	if had && prev == e {
		return nil
	}
	s.entries[k] = e
	if err := s.flush(); err != nil {
		if had {
			s.entries[k] = prev
		} else {
			delete(s.entries, k)
		}
		return err
	}
	return nil
}

// Namespace opens a handle scoped to one namespace.
func (s *Store) Namespace(name string) *Namespace {
	return &Namespace{s: s, name: name}
}

// Keys lists the stored keys of a namespace in sorted order.
func (s *Store) Keys(ns string) []string {
	var keys []string
	for k := range s.entries {
		if k.ns == ns {
			keys = append(keys, k.key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Namespace reads and writes keys of one namespace. After Close every Put
// fails with ErrClosed and every getter returns its default.
type Namespace struct {
	s      *Store
	name   string
	closed bool
}

func (n *Namespace) lookup(key, typ string) (string, bool) {
	if n == nil || n.closed {
		return "", false
	}
	e, ok := n.s.entries[entryKey{ns: n.name, key: key}]
	if !ok || e.typ != typ {
		return "", false
	}
	return e.value, true
}

// Int returns the stored int for key, or def when missing or not an int.
func (n *Namespace) Int(key string, def int) int {
	v, ok := n.lookup(key, typeInt)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Float returns the stored float64 for key, or def when missing or not a float.
func (n *Namespace) Float(key string, def float64) float64 {
	v, ok := n.lookup(key, typeFloat)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func (n *Namespace) PutInt(key string, v int) error {
	if n == nil || n.closed {
		return ErrClosed
	}
	return n.s.put(n.name, key, entry{typ: typeInt, value: strconv.Itoa(v)})
}

func (n *Namespace) PutFloat(key string, v float64) error {
	if n == nil || n.closed {
		return ErrClosed
	}
	return n.s.put(n.name, key, entry{typ: typeFloat, value: strconv.FormatFloat(v, 'g', -1, 64)})
}

// Close releases the handle.
func (n *Namespace) Close() error {
	if n == nil {
		return nil
	}
	n.closed = true
	return nil
}
