// Package desk implements the guidance desk: an immutable, deterministic
// catalogue that groups the repository's exports into thematic stations.
// The desk is built once and exposed only through read-only accessors;
// nothing in it is ambient mutable state.
package desk

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyStationName is returned when a station is built without a name.
	ErrEmptyStationName = errors.New("desk: station name must not be empty")

	// ErrEmptyEntryName is returned when an entry has no name.
	ErrEmptyEntryName = errors.New("desk: entry name must not be empty")

	// ErrDuplicateStation is returned when two stations share a name.
	ErrDuplicateStation = errors.New("desk: duplicate station name")

	// ErrDuplicateEntry is returned when a station holds two entries with
	// the same name.
	ErrDuplicateEntry = errors.New("desk: duplicate entry name")

	// ErrUnknownStation is returned when a lookup names a missing station.
	ErrUnknownStation = errors.New("desk: unknown station")

	// ErrUnknownEntry is returned when a lookup names a missing entry.
	ErrUnknownEntry = errors.New("desk: unknown entry")

	// ErrBadReference is returned for references that are not of the form
	// "station.entry" or "station:entry".
	ErrBadReference = errors.New("desk: reference must look like station.entry or station:entry")

	// ErrEmptyQuery is returned when Search is called with no query.
	ErrEmptyQuery = errors.New("desk: search query must not be empty")
)

// Entry is one catalogued export.
type Entry struct {
	// Name is the symbol as exported by its package.
	Name string
	// Kind classifies the entry: "type", "func", "universe", "metric" or
	// "observer".
	Kind string
	// Doc is a one-line human-readable summary.
	Doc string
}

// Station groups a curated set of entries under a theme. Stations are
// immutable after construction and iterate in declaration order.
type Station struct {
	name        string
	description string
	order       []string
	entries     map[string]Entry
}

// NewStation builds a station from ordered entries.
func NewStation(name, description string, entries ...Entry) (Station, error) {
	if name == "" {
		return Station{}, ErrEmptyStationName
	}
	s := Station{
		name:        name,
		description: description,
		order:       make([]string, 0, len(entries)),
		entries:     make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return Station{}, fmt.Errorf("%w (station %q)", ErrEmptyEntryName, name)
		}
		if _, dup := s.entries[e.Name]; dup {
			return Station{}, fmt.Errorf("%w: %q in station %q", ErrDuplicateEntry, e.Name, name)
		}
		s.order = append(s.order, e.Name)
		s.entries[e.Name] = e
	}
	return s, nil
}

// Name returns the station identifier.
func (s Station) Name() string { return s.name }

// Description returns the station's human-readable summary.
func (s Station) Description() string { return s.description }

// Len returns the number of entries.
func (s Station) Len() int { return len(s.order) }

// Entries returns the entries in declaration order.
func (s Station) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.entries[name])
	}
	return out
}

// Entry looks up an entry by name.
func (s Station) Entry(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Desk is an ordered, immutable collection of stations.
type Desk struct {
	order    []string
	stations map[string]Station
}

// NewDesk builds a desk from ordered stations.
func NewDesk(stations ...Station) (*Desk, error) {
	d := &Desk{
		order:    make([]string, 0, len(stations)),
		stations: make(map[string]Station, len(stations)),
	}
	for _, s := range stations {
		if _, dup := d.stations[s.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStation, s.name)
		}
		d.order = append(d.order, s.name)
		d.stations[s.name] = s
	}
	return d, nil
}

// Len returns the number of stations.
func (d *Desk) Len() int { return len(d.order) }

// Stations returns the stations in declaration order.
func (d *Desk) Stations() []Station {
	out := make([]Station, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.stations[name])
	}
	return out
}

// Station looks up a station by name.
func (d *Desk) Station(name string) (Station, bool) {
	s, ok := d.stations[name]
	return s, ok
}

// Resolve splits a reference of the form "station.entry" or
// "station:entry" and returns the named station and entry.
func (d *Desk) Resolve(ref string) (Station, Entry, error) {
	idx := strings.IndexAny(ref, ".:")
	if idx <= 0 || idx == len(ref)-1 {
		return Station{}, Entry{}, fmt.Errorf("%w: %q", ErrBadReference, ref)
	}
	stationName, entryName := ref[:idx], ref[idx+1:]

	station, ok := d.stations[stationName]
	if !ok {
		return Station{}, Entry{}, fmt.Errorf("%w: %q", ErrUnknownStation, stationName)
	}
	entry, ok := station.Entry(entryName)
	if !ok {
		return Station{}, Entry{}, fmt.Errorf("%w: %q in station %q", ErrUnknownEntry, entryName, stationName)
	}
	return station, entry, nil
}

// Match is one Search hit.
type Match struct {
	Station string
	Entry   string
	Doc     string
}

// Search returns every entry whose name, or whose station's name, contains
// the query. Matches come back in catalogue order, so output is stable.
func (d *Desk) Search(query string, caseSensitive bool) ([]Match, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	contains := func(haystack string) bool {
		if caseSensitive {
			return strings.Contains(haystack, query)
		}
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(query))
	}

	var matches []Match
	for _, stationName := range d.order {
		station := d.stations[stationName]
		stationHit := contains(stationName)
		for _, e := range station.Entries() {
			if stationHit || contains(e.Name) {
				matches = append(matches, Match{Station: stationName, Entry: e.Name, Doc: e.Doc})
			}
		}
	}
	return matches, nil
}
