package desk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uminoko/computegod/desk"
)

func sampleDesk(t *testing.T) *desk.Desk {
	t.Helper()
	core, err := desk.NewStation("core", "Engine primitives.",
		desk.Entry{Name: "Universe", Kind: "type", Doc: "State plus rules."},
		desk.Entry{Name: "Fixpoint", Kind: "func", Doc: "Convergence driver."},
	)
	require.NoError(t, err)
	toys, err := desk.NewStation("toys", "Playful universes.",
		desk.Entry{Name: "Execute", Kind: "universe", Doc: "world.execute(me);"},
	)
	require.NoError(t, err)

	d, err := desk.NewDesk(core, toys)
	require.NoError(t, err)
	return d
}

func TestNewStation_Validation(t *testing.T) {
	_, err := desk.NewStation("", "nameless")
	require.ErrorIs(t, err, desk.ErrEmptyStationName)

	_, err = desk.NewStation("s", "", desk.Entry{Name: ""})
	require.ErrorIs(t, err, desk.ErrEmptyEntryName)

	_, err = desk.NewStation("s", "", desk.Entry{Name: "x"}, desk.Entry{Name: "x"})
	require.ErrorIs(t, err, desk.ErrDuplicateEntry)
}

func TestNewDesk_RejectsDuplicateStations(t *testing.T) {
	a, err := desk.NewStation("twin", "")
	require.NoError(t, err)
	b, err := desk.NewStation("twin", "")
	require.NoError(t, err)

	_, err = desk.NewDesk(a, b)
	require.ErrorIs(t, err, desk.ErrDuplicateStation)
}

func TestDesk_DeterministicOrder(t *testing.T) {
	d := sampleDesk(t)

	var names []string
	for _, s := range d.Stations() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"core", "toys"}, names)

	core, ok := d.Station("core")
	require.True(t, ok)
	entries := core.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "Universe", entries[0].Name)
	require.Equal(t, "Fixpoint", entries[1].Name)
}

func TestDesk_Resolve(t *testing.T) {
	d := sampleDesk(t)

	station, entry, err := d.Resolve("core.Fixpoint")
	require.NoError(t, err)
	require.Equal(t, "core", station.Name())
	require.Equal(t, "Fixpoint", entry.Name)

	// Colon separator is accepted too.
	_, entry, err = d.Resolve("toys:Execute")
	require.NoError(t, err)
	require.Equal(t, "Execute", entry.Name)

	_, _, err = d.Resolve("nowhere.Universe")
	require.ErrorIs(t, err, desk.ErrUnknownStation)
	_, _, err = d.Resolve("core.Missing")
	require.ErrorIs(t, err, desk.ErrUnknownEntry)
	for _, bad := range []string{"", "core", ".Universe", "core."} {
		_, _, err = d.Resolve(bad)
		require.ErrorIs(t, err, desk.ErrBadReference, "ref %q", bad)
	}
}

func TestDesk_Search(t *testing.T) {
	d := sampleDesk(t)

	_, err := d.Search("", false)
	require.ErrorIs(t, err, desk.ErrEmptyQuery)

	matches, err := d.Search("fix", false)
	require.NoError(t, err)
	require.Equal(t, []desk.Match{{Station: "core", Entry: "Fixpoint", Doc: "Convergence driver."}}, matches)

	// Case-sensitive search misses the lowercase query.
	matches, err = d.Search("fix", true)
	require.NoError(t, err)
	require.Empty(t, matches)

	// A station-name hit carries all of its entries.
	matches, err = d.Search("toys", false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Execute", matches[0].Entry)
}

func TestDefault_CatalogueIsWellFormed(t *testing.T) {
	d := desk.Default()
	require.NotZero(t, d.Len())

	for _, required := range []string{"core", "metrics", "trackers", "domains"} {
		_, ok := d.Station(required)
		require.True(t, ok, "missing station %q", required)
	}

	_, entry, err := d.Resolve("core.Fixpoint")
	require.NoError(t, err)
	require.Equal(t, "func", entry.Kind)

	// Same instance on every call: built once, read-only after.
	require.Same(t, d, desk.Default())
}
