// SPDX-License-Identifier: MIT

package swm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"fortio.org/safecast"
)

// DefaultVersion is the version string written by NewWriter.
const DefaultVersion = "10.1"

var (
	// ErrRecordShape indicates a record whose Neighbors and Weights lengths
	// disagree, or a Fixed file record with differing weights.
	ErrRecordShape = errors.New("swm: inconsistent record shape")

	// ErrRecordCount indicates that Close was reached with a record count
	// different from the header's NumObs, or WriteRecord overflowed it.
	ErrRecordCount = errors.New("swm: record count does not match header")
)

// Writer encodes the layout read by Reader. Not safe for concurrent use.
type Writer struct {
	wc      io.WriteCloser
	bw      *bufio.Writer
	header  Header
	written int
	closed  bool
}

// Create creates path and writes the header.
func Create(path string, h Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("Create(%q): %w", path, err)
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("Create(%q): %w", path, err)
	}

	return w, nil
}

// NewWriter writes h to wc. An empty h.Version becomes DefaultVersion.
func NewWriter(wc io.WriteCloser, h Header) (*Writer, error) {
	if h.MasterField == "" {
		return nil, fmt.Errorf("empty master field: %w", ErrBadHeader)
	}
	if h.Version == "" {
		h.Version = DefaultVersion
	}
	numObs, err := safecast.Conv[int32](h.NumObs)
	if err != nil {
		return nil, fmt.Errorf("numObs=%d: %v: %w", h.NumObs, err, ErrBadHeader)
	}
	if numObs < 0 {
		return nil, fmt.Errorf("numObs=%d: %w", h.NumObs, ErrNegativeCount)
	}

	w := &Writer{wc: wc, bw: bufio.NewWriter(wc), header: h}
	line := versionPrefix + headerSep + h.Version + headerSep + h.MasterField + headerSep +
		strconv.FormatBool(h.Fixed) + "\n"
	if _, err = w.bw.WriteString(line); err != nil {
		return nil, err
	}
	var rowStd int32
	if h.RowStandard {
		rowStd = 1
	}
	if err = binary.Write(w.bw, byteOrder, [2]int32{numObs, rowStd}); err != nil {
		return nil, err
	}

	return w, nil
}

// WriteRecord appends rec. Count is taken from len(rec.Neighbors).
func (w *Writer) WriteRecord(rec Record) error {
	if w.closed {
		return ErrClosed
	}
	if w.written >= w.header.NumObs {
		return fmt.Errorf("WriteRecord(master=%d): %w", rec.Master, ErrRecordCount)
	}
	nn := len(rec.Neighbors)
	if len(rec.Weights) != nn {
		return fmt.Errorf("WriteRecord(master=%d): %d neighbors, %d weights: %w",
			rec.Master, nn, len(rec.Weights), ErrRecordShape)
	}
	master, err := safecast.Conv[int32](rec.Master)
	if err != nil {
		return fmt.Errorf("WriteRecord: master %d: %w", rec.Master, err)
	}
	nn32, err := safecast.Conv[int32](nn)
	if err != nil {
		return fmt.Errorf("WriteRecord(master=%d): nn: %w", rec.Master, err)
	}
	if err = binary.Write(w.bw, byteOrder, [2]int32{master, nn32}); err != nil {
		return err
	}
	if nn > 0 {
		ids := make([]int32, nn)
		for i, id := range rec.Neighbors {
			if ids[i], err = safecast.Conv[int32](id); err != nil {
				return fmt.Errorf("WriteRecord(master=%d): neighbor %d: %w", rec.Master, id, err)
			}
		}
		if err = binary.Write(w.bw, byteOrder, ids); err != nil {
			return err
		}
		if w.header.Fixed {
			for _, v := range rec.Weights[1:] {
				if math.Abs(v-rec.Weights[0]) > 0 {
					return fmt.Errorf("WriteRecord(master=%d): fixed file with varying weights: %w",
						rec.Master, ErrRecordShape)
				}
			}
			err = binary.Write(w.bw, byteOrder, rec.Weights[0])
		} else {
			err = binary.Write(w.bw, byteOrder, rec.Weights)
		}
		if err != nil {
			return err
		}
		if err = binary.Write(w.bw, byteOrder, rec.RowSum); err != nil {
			return err
		}
	}
	w.written++

	return nil
}

// Close flushes and releases the handle. It reports ErrRecordCount when fewer
// records than NumObs were written; the handle is released either way.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.bw.Flush()
	closeErr := w.wc.Close()
	switch {
	case flushErr != nil:
		return flushErr
	case closeErr != nil:
		return closeErr
	case w.written != w.header.NumObs:
		return fmt.Errorf("Close: wrote %d of %d records: %w", w.written, w.header.NumObs, ErrRecordCount)
	}

	return nil
}
