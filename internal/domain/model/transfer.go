// Package model contains domain models passed between layers.
package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TransferRecord is one player transfer event. Nil pointers are nulls in
// the source dataset.
type TransferRecord struct {
	FirstName   string
	LastName    string
	Origin      *string // school the player is leaving
	Destination *string // school the player is joining
	Season      int
	Rating      *float64
	Stars       *int // recruiting scale, commonly 0-5
}

// OriginIs reports whether the record leaves school. A null origin never matches.
func (r TransferRecord) OriginIs(school string) bool {
	return r.Origin != nil && *r.Origin == school
}

// DestinationIs reports whether the record joins school. A null destination never matches.
func (r TransferRecord) DestinationIs(school string) bool {
	return r.Destination != nil && *r.Destination == school
}

// Table is an immutable, ordered set of transfer records loaded from one
// source. It is never mutated after NewTable returns; readers may share it
// freely across goroutines.
type Table struct {
	id          string
	fingerprint string
	source      string
	loadedAt    time.Time
	records     []TransferRecord
}

// NewTable copies records into a new table stamped with a fresh load ID
// and a fingerprint of its content.
func NewTable(source string, records []TransferRecord) *Table {
	records = slices.Clone(records)
	return &Table{
		id:          uuid.NewString(),
		fingerprint: Fingerprint(records),
		source:      source,
		loadedAt:    time.Now().UTC(),
		records:     records,
	}
}

// ID identifies this particular load of the dataset.
func (t *Table) ID() string { return t.id }

// Fingerprint identifies the table content. Loads of the same records, in
// any process and from any file format, share it.
func (t *Table) Fingerprint() string { return t.fingerprint }

// Source is the path the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the i-th record in original order.
func (t *Table) At(i int) TransferRecord { return t.records[i] }

// Records returns a copy of all records in original order.
func (t *Table) Records() []TransferRecord {
	if t == nil {
		return nil
	}
	return slices.Clone(t.records)
}

// Seasons returns the distinct seasons present, newest first.
func (t *Table) Seasons() []int {
	if t == nil {
		return nil
	}
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, r := range t.records {
		if _, ok := seen[r.Season]; ok {
			continue
		}
		seen[r.Season] = struct{}{}
		out = append(out, r.Season)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// LatestSeason returns the newest season, or 0 for an empty table.
func (t *Table) LatestSeason() int {
	seasons := t.Seasons()
	if len(seasons) == 0 {
		return 0
	}
	return seasons[0]
}

// SchoolSet is the distinct set of school names seen as origin or destination.
type SchoolSet map[string]struct{}

// Add inserts name, ignoring empty values.
func (s SchoolSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Contains reports whether name is in the set.
func (s SchoolSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in alphabetical order.
func (s SchoolSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// StringPtr, Float64Ptr and IntPtr build nullable fields.
func StringPtr(v string) *string    { return &v }
func Float64Ptr(v float64) *float64 { return &v }
func IntPtr(v int) *int             { return &v }

// DistinctSchools unions the origin and destination columns of t, dropping
// nulls and empty names. A nil or empty table yields an empty set.
func DistinctSchools(t *Table) SchoolSet {
	set := make(SchoolSet)
	if t == nil {
		return set
	}
	for _, r := range t.records {
		if r.Origin != nil {
			set.Add(*r.Origin)
		}
		if r.Destination != nil {
			set.Add(*r.Destination)
		}
	}
	return set
}

// Fingerprint returns the hex sha256 of records in order. Null and empty
// values hash differently.
func Fingerprint(records []TransferRecord) string {
	h := sha256.New()
	var buf [8]byte
	writeInt := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(uint64(len(s)))
		h.Write([]byte(s))
	}
	writeNullable := func(present bool) {
		if present {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	writeInt(uint64(len(records)))
	for i := range records {
		r := &records[i]
		writeString(r.FirstName)
		writeString(r.LastName)
		writeNullable(r.Origin != nil)
		if r.Origin != nil {
			writeString(*r.Origin)
		}
		writeNullable(r.Destination != nil)
		if r.Destination != nil {
			writeString(*r.Destination)
		}
		writeInt(uint64(int64(r.Season)))
		writeNullable(r.Rating != nil)
		if r.Rating != nil {
			writeInt(math.Float64bits(*r.Rating))
		}
		writeNullable(r.Stars != nil)
		if r.Stars != nil {
			writeInt(uint64(int64(*r.Stars)))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
