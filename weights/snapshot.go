// SPDX-License-Identifier: MIT

package weights

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/katalvlaran/spreg/registry"
)

// snapshotSchema is bumped whenever snapshotPayload changes shape.
const snapshotSchema uint16 = 1

// snapshotPayload is the persisted form of a SpatialWeights plus the
// registry that gives its order ids meaning.
type snapshotPayload struct {
	Schema          uint16        `msgpack:"schema"`
	Field           string        `msgpack:"field"`
	Masters         []int64       `msgpack:"masters"`
	N               int           `msgpack:"n"`
	RowStandardized bool          `msgpack:"row_standardized"`
	Rows            []snapshotRow `msgpack:"rows"`
}

// snapshotRow holds one non-empty row in parallel slices.
type snapshotRow struct {
	Order     int       `msgpack:"order"`
	Neighbors []int     `msgpack:"neighbors"`
	Weights   []float64 `msgpack:"weights"`
}

// WriteSnapshot encodes w and reg to out. reg may be nil; when present its
// Len must equal w.N().
func WriteSnapshot(out io.Writer, w *SpatialWeights, reg *registry.Registry) error {
	p := snapshotPayload{Schema: snapshotSchema, N: w.n, RowStandardized: w.rowStandardized}
	if reg != nil {
		if reg.Len() != w.n {
			return fmt.Errorf("WriteSnapshot: registry has %d ids, weights %d: %w", reg.Len(), w.n, ErrShapeMismatch)
		}
		p.Field, p.Masters = reg.Field(), reg.Masters()
	}
	for i, row := range w.rows {
		if row == nil {
			continue
		}
		sr := snapshotRow{Order: i, Neighbors: make([]int, len(row)), Weights: make([]float64, len(row))}
		for k, nb := range row {
			sr.Neighbors[k], sr.Weights[k] = nb.Order, nb.Weight
		}
		p.Rows = append(p.Rows, sr)
	}

	if err := msgpack.NewEncoder(out).Encode(&p); err != nil {
		return fmt.Errorf("WriteSnapshot: %w", err)
	}

	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot. The registry is
// nil when none was written.
//
// Errors:
//   - ErrSnapshotSchema for another schema version or inconsistent rows.
func ReadSnapshot(in io.Reader) (*SpatialWeights, *registry.Registry, error) {
	var p snapshotPayload
	if err := msgpack.NewDecoder(in).Decode(&p); err != nil {
		return nil, nil, fmt.Errorf("ReadSnapshot: %w", err)
	}
	if p.Schema != snapshotSchema {
		return nil, nil, fmt.Errorf("ReadSnapshot: schema %d, want %d: %w", p.Schema, snapshotSchema, ErrSnapshotSchema)
	}

	rows := make(map[int][]Neighbor, len(p.Rows))
	for _, sr := range p.Rows {
		if len(sr.Neighbors) != len(sr.Weights) {
			return nil, nil, fmt.Errorf("ReadSnapshot: row %d: %w", sr.Order, ErrSnapshotSchema)
		}
		row := make([]Neighbor, len(sr.Neighbors))
		for k := range sr.Neighbors {
			row[k] = Neighbor{Order: sr.Neighbors[k], Weight: sr.Weights[k]}
		}
		rows[sr.Order] = row
	}
	w, err := New(p.N, rows, p.RowStandardized)
	if err != nil {
		return nil, nil, fmt.Errorf("ReadSnapshot: %v: %w", err, ErrSnapshotSchema)
	}

	if p.Field == "" {
		return w, nil, nil
	}
	reg, err := registry.New(p.Field, p.Masters)
	if err != nil {
		return nil, nil, fmt.Errorf("ReadSnapshot: %w", err)
	}
	if reg.Len() != w.n {
		return nil, nil, fmt.Errorf("ReadSnapshot: %d masters for %d rows: %w", reg.Len(), w.n, ErrSnapshotSchema)
	}

	return w, reg, nil
}

// SaveSnapshot writes a snapshot to path atomically (temp file + rename).
func SaveSnapshot(path string, w *SpatialWeights, reg *registry.Registry) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".weights-*")
	if err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = WriteSnapshot(f, w, reg); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot from path.
func LoadSnapshot(path string) (*SpatialWeights, *registry.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadSnapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}
