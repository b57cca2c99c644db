// SPDX-License-Identifier: MIT

package weights_test

import (
	"bytes"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/spreg/matrix"
	"github.com/katalvlaran/spreg/weights"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, n int, rows map[int][]weights.Neighbor, rowStd bool) *weights.SpatialWeights {
	t.Helper()
	w, err := weights.New(n, rows, rowStd)
	require.NoError(t, err)
	return w
}

func TestNew_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := weights.New(2, map[int][]weights.Neighbor{2: {{Order: 0, Weight: 1}}}, false)
	require.ErrorIs(t, err, weights.ErrShapeMismatch)
	_, err = weights.New(2, map[int][]weights.Neighbor{0: {{Order: -1, Weight: 1}}}, false)
	require.ErrorIs(t, err, weights.ErrShapeMismatch)

	w := mustNew(t, 3, map[int][]weights.Neighbor{0: {}, 1: {{Order: 2, Weight: 3}}}, false)
	require.False(t, w.Has(0), "empty rows are never stored")
	require.Equal(t, []int{0, 2}, w.Islands())
}

func TestRowStandardize_Idempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	rows := map[int][]weights.Neighbor{}
	n := 12
	for i := 0; i < n; i++ {
		if i%5 == 4 {
			continue // leave a few islands
		}
		for k := 0; k < 1+rng.Intn(4); k++ {
			rows[i] = append(rows[i], weights.Neighbor{Order: rng.Intn(n), Weight: 0.1 + 10*rng.Float64()})
		}
	}
	w := mustNew(t, n, rows, false)

	once := w.RowStandardize()
	twice := once.RowStandardize()
	require.True(t, once.RowStandardized())
	require.False(t, w.RowStandardized(), "source value is not mutated")

	approx := cmpopts.EquateApprox(0, 1e-12)
	for i := 0; i < n; i++ {
		if diff := cmp.Diff(once.Row(i), twice.Row(i), approx); diff != "" {
			t.Errorf("row %d differs after second pass (-once +twice):\n%s", i, diff)
		}
		if !once.Has(i) {
			continue
		}
		var sum float64
		for _, nb := range twice.Row(i) {
			sum += nb.Weight
		}
		require.InDelta(t, 1.0, sum, 1e-12)
		// flagged raw weights and materialized weights agree
		if diff := cmp.Diff(w.RowStandardize().RawRow(i), (mustNew(t, n, rows, true)).Row(i), approx); diff != "" {
			t.Errorf("row %d flag vs materialized (-want +got):\n%s", i, diff)
		}
	}
}

func TestSpatialWeights_LagDenseStats(t *testing.T) {
	t.Parallel()

	// 0 - 1 - 2 path, binary, row-standardized
	w := mustNew(t, 3, map[int][]weights.Neighbor{
		0: {{Order: 1, Weight: 1}},
		1: {{Order: 0, Weight: 1}, {Order: 2, Weight: 1}},
		2: {{Order: 1, Weight: 1}},
	}, true)

	lag, err := w.Lag([]float64{2, 4, 6})
	require.NoError(t, err)
	require.Equal(t, []float64{4, 4, 4}, lag)
	_, err = w.Lag([]float64{1})
	require.ErrorIs(t, err, weights.ErrLengthMismatch)

	d, err := w.ToDense()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1}, d.RowSums())
	v, err := d.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 0.5, v)

	_, err = mustNew(t, 0, nil, false).ToDense()
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	st := w.Stats()
	require.Equal(t, 3, st.N)
	require.Equal(t, 4, st.NonZero)
	require.InDelta(t, 3.0, st.S0, 1e-12)
	require.Equal(t, 1, st.MinNeighbors)
	require.Equal(t, 2, st.MaxNeighbors)
	require.InDelta(t, 4.0/3.0, st.MeanNeighbors, 1e-12)
	require.InDelta(t, 100*4.0/9.0, st.PctNonZero, 1e-12)
	require.Equal(t, 0, st.Islands)
	require.True(t, w.IsSymmetric(0))

	asym := mustNew(t, 2, map[int][]weights.Neighbor{0: {{Order: 1, Weight: 1}}}, false)
	require.False(t, asym.IsSymmetric(0))
	require.Equal(t, 0, asym.Cardinality(1))
	require.Equal(t, 0, asym.Cardinality(-3))
}

func TestSpatialWeights_RowsAreCopies(t *testing.T) {
	t.Parallel()

	w := mustNew(t, 2, map[int][]weights.Neighbor{0: {{Order: 1, Weight: 2}}}, false)
	row := w.RawRow(0)
	row[0].Weight = 100
	require.Equal(t, 2.0, w.RawRow(0)[0].Weight)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	src := newFakeSource("ID", true, fourChain())
	reg := mustRegistry(t, "ID", 4, 3, 2, 1)
	w, err := src.strategy().Build(reg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, weights.WriteSnapshot(&buf, w, reg))
	got, gotReg, err := weights.ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, reg.Masters(), gotReg.Masters())
	require.Equal(t, reg.Field(), gotReg.Field())
	require.Equal(t, w.RowStandardized(), got.RowStandardized())
	for i := 0; i < w.N(); i++ {
		if diff := cmp.Diff(w.RawRow(i), got.RawRow(i)); diff != "" {
			t.Errorf("row %d (-want +got):\n%s", i, diff)
		}
	}

	path := filepath.Join(t.TempDir(), "w.msgpack")
	require.NoError(t, weights.SaveSnapshot(path, w, nil))
	loaded, noReg, err := weights.LoadSnapshot(path)
	require.NoError(t, err)
	require.Nil(t, noReg)
	require.Equal(t, w.Stats(), loaded.Stats())
}

func TestSnapshot_Errors(t *testing.T) {
	t.Parallel()

	w := mustNew(t, 2, nil, false)
	err := weights.WriteSnapshot(&bytes.Buffer{}, w, mustRegistry(t, "ID", 1))
	require.ErrorIs(t, err, weights.ErrShapeMismatch)

	_, _, err = weights.ReadSnapshot(bytes.NewReader([]byte{0xc1}))
	require.Error(t, err)

	require.False(t, math.IsNaN(w.Stats().MeanNeighbors))
}

func TestComponents(t *testing.T) {
	t.Parallel()

	// 0->1 one-way, 2<->3, 4 isolated
	w := mustNew(t, 5, map[int][]weights.Neighbor{
		1: {{Order: 0, Weight: 1}},
		2: {{Order: 3, Weight: 1}},
		3: {{Order: 2, Weight: 1}},
	}, false)
	require.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, w.Components())
	require.Empty(t, mustNew(t, 0, nil, false).Components())
}
