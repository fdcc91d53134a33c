package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIDJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want ID
		out  string
	}{
		{name: "number", raw: `12`, want: "12", out: `12`},
		{name: "string", raw: `"abc-1"`, want: "abc-1", out: `"abc-1"`},
		{name: "numeric string", raw: `"7"`, want: "7", out: `7`},
		{name: "null", raw: `null`, want: "", out: `""`},
		{name: "zero padded string", raw: `"007"`, want: "007", out: `"007"`},
		{name: "signed string", raw: `"+5"`, want: "+5", out: `"+5"`},
		{name: "negative number", raw: `-3`, want: "-3", out: `-3`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var id ID
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &id))
			require.Equal(t, tc.want, id)

			encoded, err := json.Marshal(id)
			require.NoError(t, err)
			require.JSONEq(t, tc.out, string(encoded))
		})
	}
}

func TestIDUnmarshalRejectsObjects(t *testing.T) {
	t.Parallel()

	var id ID
	require.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
}

func TestProductDecodesBackendPayload(t *testing.T) {
	t.Parallel()

	var p Product
	err := json.Unmarshal([]byte(`{"id":3,"name":"Shampoo","description":"d","images":["https://x/a.png"],"price":19.9,"extra":true}`), &p)
	require.NoError(t, err)
	require.Equal(t, ID("3"), p.ID)
	require.Equal(t, 19.9, p.Price)
	require.Equal(t, "https://x/a.png", p.PrimaryImage())
}

func TestPrimaryImageSkipsBlankEntries(t *testing.T) {
	t.Parallel()

	require.Empty(t, Product{}.PrimaryImage())
	require.Empty(t, Product{Images: []string{}}.PrimaryImage())
	require.Equal(t, "https://x/b.png", Product{Images: []string{"  ", " https://x/b.png "}}.PrimaryImage())
}

func TestProductInputNormalized(t *testing.T) {
	t.Parallel()

	in := ProductInput{
		Name:        "  Shampoo ",
		Description: "\tsuave\n",
		Images:      []string{" https://x/a.png ", "", "   "},
		Price:       19.9,
	}
	out := in.normalized()
	require.Equal(t, "Shampoo", out.Name)
	require.Equal(t, "suave", out.Description)
	require.Equal(t, []string{"https://x/a.png"}, out.Images)

	empty := ProductInput{}.normalized()
	require.NotNil(t, empty.Images)
	encoded, err := json.Marshal(empty)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"","description":"","images":[],"price":0}`, string(encoded))
}

func TestSnapshotIsImmutable(t *testing.T) {
	t.Parallel()

	source := []Product{
		{ID: "1", Name: "A", Images: []string{"https://x/a.png"}},
		{ID: "2", Name: "B"},
	}
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot(source, fetched)

	source[0].Name = "mutated"
	source[0].Images[0] = "mutated"

	got := snap.Products()
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Name)
	require.Equal(t, "https://x/a.png", got[0].Images[0])

	got[1].Name = "changed"
	again, ok := snap.Find("2")
	require.True(t, ok)
	require.Equal(t, "B", again.Name)

	found, ok := snap.Find("1")
	require.True(t, ok)
	found.Images[0] = "changed"
	require.Equal(t, "https://x/a.png", snap.Products()[0].Images[0])

	_, ok = snap.Find("99")
	require.False(t, ok)
	require.Equal(t, fetched, snap.FetchedAt())
	require.Equal(t, 2, snap.Len())
}

func TestZeroSnapshot(t *testing.T) {
	t.Parallel()

	var snap Snapshot
	require.Equal(t, 0, snap.Len())
	require.Empty(t, snap.Products())
	require.True(t, snap.FetchedAt().IsZero())
}
