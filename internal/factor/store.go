package factor

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/greenledger/emfactor/internal/units"
)

// regionKey identifies a (activity, region) group in the secondary index.
type regionKey struct {
	activity string
	region   string
}

// Store is an immutable index over a set of factor records. It is built once
// by NewStore and safe for unlimited concurrent readers; no method mutates
// it after construction.
type Store struct {
	records    []Record
	byActivity map[string][]*Record
	byRegion   map[regionKey][]*Record
}

// NewStore validates and indexes a full record set. The whole load is
// rejected on the first invalid record so that a bad factor can never be
// chosen at resolution time.
func NewStore(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	s := &Store{
		records:    make([]Record, len(records)),
		byActivity: make(map[string][]*Record),
		byRegion:   make(map[regionKey][]*Record),
	}
	copy(s.records, records)

	for i := range s.records {
		rec := &s.records[i]
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		rec.ActivityKey = NormalizeActivity(rec.ActivityKey)
		if canonical, ok := units.Normalize(rec.Unit); ok {
			rec.Unit = canonical
		}

		s.byActivity[rec.ActivityKey] = append(s.byActivity[rec.ActivityKey], rec)
		key := regionKey{activity: rec.ActivityKey, region: NormalizeRegion(rec.Region)}
		s.byRegion[key] = append(s.byRegion[key], rec)
	}

	// Pre-sort every group by the deterministic tie-break order so lookups
	// return ranked slices without re-sorting on the hot path.
	for _, group := range s.byActivity {
		sortByPrecedence(group)
	}
	for _, group := range s.byRegion {
		sortByPrecedence(group)
	}

	return s, nil
}

// sortByPrecedence orders records by priority ascending, vintage year
// descending, then source lexical, guaranteeing a single reproducible winner
// within any group.
func sortByPrecedence(group []*Record) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Priority != group[j].Priority {
			return group[i].Priority < group[j].Priority
		}
		if group[i].VintageYear != group[j].VintageYear {
			return group[i].VintageYear > group[j].VintageYear
		}
		return group[i].Source < group[j].Source
	})
}

// LookupExact returns the records matching activity, region and unit
// exactly, ranked by priority ascending then vintage year descending.
// The returned slice is owned by the caller; the records are not.
func (s *Store) LookupExact(activity, region, unit string) []*Record {
	key := regionKey{
		activity: NormalizeActivity(activity),
		region:   NormalizeRegion(region),
	}
	canonicalUnit, ok := units.Normalize(unit)
	if !ok {
		return nil
	}

	var out []*Record
	for _, rec := range s.byRegion[key] {
		if rec.Unit == canonicalUnit {
			out = append(out, rec)
		}
	}
	return out
}

// LookupByActivity returns all records for an activity across every region
// and unit, ranked by precedence, for use by the fuzzy and proxy layers.
func (s *Store) LookupByActivity(activity string) []*Record {
	group := s.byActivity[NormalizeActivity(activity)]
	out := make([]*Record, len(group))
	copy(out, group)
	return out
}

// HasActivity reports whether any record exists for the activity.
func (s *Store) HasActivity(activity string) bool {
	return len(s.byActivity[NormalizeActivity(activity)]) > 0
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// Activities returns every distinct activity key, sorted, for dataset
// inspection.
func (s *Store) Activities() []string {
	keys := make([]string, 0, len(s.byActivity))
	for key := range s.byActivity {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Records returns a copy of every loaded record, in load order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Handle is a swappable reference to the current Store. Readers call Load
// with no locking; reload constructs a fresh Store and publishes it with
// Swap, so in-flight lookups see either the old index in full or the new
// index in full, never a mix.
type Handle struct {
	ptr atomic.Pointer[Store]
}

// NewHandle wraps an initial store.
func NewHandle(s *Store) *Handle {
	h := &Handle{}
	h.ptr.Store(s)
	return h
}

// Load returns the current store.
func (h *Handle) Load() *Store {
	return h.ptr.Load()
}

// Swap atomically replaces the current store.
func (h *Handle) Swap(s *Store) {
	h.ptr.Store(s)
}
