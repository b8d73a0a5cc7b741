// Package dbfile builds and reads the on-disk critical-positions
// database: an open-addressed, linear-probed hash table of
// (partial_key32, value8) slots, written little-endian.
package dbfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/BassBess/criticaldb/enumerate"
)

const (
	headerSize = 12
	keyBytes   = 4
	valueBytes = 1
	width      = 7
	height     = 6
)

// Table is the in-memory form of the serialized hash table.
type Table struct {
	Size   int
	Keys   []uint32
	Values []uint8
}

// Build lays out entries into an open-addressed hash table sized to
// the smallest prime at least 2x the entry count, as specified. Entries
// are inserted in the order given; since the enumerator visits every
// reachable position exactly once, no two entries ever collide on the
// same key, so there is no deduplication step.
func Build(entries []enumerate.CriticalEntry) *Table {
	size := nextPrime(2 * len(entries))
	if size < 1 {
		size = 1
	}
	keys := make([]uint32, size)
	values := make([]uint8, size)
	for _, e := range entries {
		idx := e.Hash % uint64(size)
		for keys[idx] != 0 {
			idx = (idx + 1) % uint64(size)
		}
		keys[idx] = uint32(e.Hash >> 16)
		values[idx] = e.WinningCol
	}
	return &Table{Size: size, Keys: keys, Values: values}
}

// WriteTo serializes t to path, per the header layout:
//
//	offset 0:      width, height, min_ply, max_ply, key_bytes, value_bytes
//	offset 6:      2 reserved bytes (zero)
//	offset 8:      table_size (uint32)
//	offset 12:     keys[] (uint32 each, little-endian)
//	offset 12+4T:  values[] (uint8 each)
//
// The file is written to a temporary path and renamed into place only
// after a full, flushed write, so a crash or I/O failure never leaves a
// critical.db that claims to be complete but isn't. Transient write
// errors are retried with backoff before the write is abandoned.
func (t *Table) WriteTo(path string, minPly, maxPly int) error {
	tmp := path + ".tmp"

	err := retry.Do(func() error {
		return t.writeOnce(tmp, minPly, maxPly)
	}, retry.Attempts(3), retry.Delay(200*time.Millisecond))
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}

func (t *Table) writeOnce(tmp string, minPly, maxPly int) error {
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	header := [headerSize]byte{
		0: byte(width),
		1: byte(height),
		2: byte(minPly),
		3: byte(maxPly),
		4: byte(keyBytes),
		5: byte(valueBytes),
		// 6, 7: reserved, left zero
	}
	binary.LittleEndian.PutUint32(header[8:12], uint32(t.Size))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	var buf [4]byte
	for _, k := range t.Keys {
		binary.LittleEndian.PutUint32(buf[:], k)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	if _, err := w.Write(t.Values); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Open reads a critical-positions database previously written by
// WriteTo.
func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header [headerSize]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	size := int(binary.LittleEndian.Uint32(header[8:12]))

	keys := make([]uint32, size)
	if err := binary.Read(f, binary.LittleEndian, keys); err != nil {
		return nil, fmt.Errorf("reading keys: %w", err)
	}
	values := make([]uint8, size)
	if _, err := io.ReadFull(f, values); err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	return &Table{Size: size, Keys: keys, Values: values}, nil
}

// Lookup mirrors the consumer-side probe: empty slot (key 0) ends the
// probe with "not critical".
func (t *Table) Lookup(hash uint64) (uint8, bool) {
	idx := hash % uint64(t.Size)
	partial := uint32(hash >> 16)
	for {
		k := t.Keys[idx]
		if k == 0 {
			return 0, false
		}
		if k == partial {
			return t.Values[idx], true
		}
		idx = (idx + 1) % uint64(t.Size)
	}
}
