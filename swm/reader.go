// SPDX-License-Identifier: MIT

package swm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
)

var (
	// ErrBadHeader indicates an unreadable or malformed header line or
	// header block (numObs / rowStandard).
	ErrBadHeader = errors.New("swm: malformed header")

	// ErrTruncated indicates that the stream ended inside a record or before
	// numObs records were read.
	ErrTruncated = errors.New("swm: truncated record stream")

	// ErrNegativeCount indicates a negative numObs or neighbor count.
	ErrNegativeCount = errors.New("swm: negative count")

	// ErrClosed indicates Next was called after Close.
	ErrClosed = errors.New("swm: reader closed")
)

const (
	headerSep     = "@"
	versionPrefix = "VERSION"
)

// byteOrder is the on-disk order of every numeric field.
var byteOrder = binary.LittleEndian

// Header is the resource-level metadata of a weights file.
type Header struct {
	Version     string // empty for legacy headers
	MasterField string // master identifier field the records are keyed by
	Fixed       bool   // one weight per record instead of one per neighbor
	NumObs      int    // number of records in the stream
	RowStandard bool   // stored weights were row-standardized
}

// Record is one observation's neighbor list as stored on disk.
//
// Count is the declared neighbor count; for Fixed files Weights is expanded
// to Count copies of the single stored weight. RowSum is the row total
// before standardization (zero when Count == 0).
type Record struct {
	Master    int64
	Count     int
	Neighbors []int64
	Weights   []float64
	RowSum    float64
}

// Reader decodes records sequentially. Not safe for concurrent use.
type Reader struct {
	rc     io.ReadCloser
	br     *bufio.Reader
	header Header
	read   int
	closed bool
}

// Open opens path and decodes its header.
// On any header error the file is closed before returning.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Open(%q): %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("Open(%q): %w", path, err)
	}

	return r, nil
}

// NewReader wraps rc and decodes the header. The caller still owns rc when an
// error is returned.
func NewReader(rc io.ReadCloser) (*Reader, error) {
	r := &Reader{rc: rc, br: bufio.NewReader(rc)}
	if err := r.readHeader(); err != nil {
		return nil, err
	}

	return r, nil
}

// readHeader parses the text header line followed by numObs and rowStandard.
func (r *Reader) readHeader() error {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("header line: %v: %w", err, ErrBadHeader)
	}
	parts := strings.Split(strings.TrimRight(line, "\r\n"), headerSep)

	var h Header
	switch {
	case parts[0] == versionPrefix && len(parts) >= 4:
		h.Version, h.MasterField, h.Fixed = parts[1], parts[2], parseFixed(parts[3])
	case parts[0] != versionPrefix && len(parts) >= 2:
		h.MasterField, h.Fixed = parts[0], parseFixed(parts[1])
	default:
		return fmt.Errorf("header line %q: %w", line, ErrBadHeader)
	}
	if h.MasterField == "" {
		return fmt.Errorf("header line %q: empty master field: %w", line, ErrBadHeader)
	}

	var block [2]int32
	if err = binary.Read(r.br, byteOrder, &block); err != nil {
		return fmt.Errorf("header block: %v: %w", err, ErrBadHeader)
	}
	if block[0] < 0 {
		return fmt.Errorf("numObs=%d: %w", block[0], ErrNegativeCount)
	}
	if h.NumObs, err = safecast.Conv[int](block[0]); err != nil {
		return fmt.Errorf("numObs: %v: %w", err, ErrBadHeader)
	}
	h.RowStandard = block[1] != 0
	r.header = h

	return nil
}

// parseFixed accepts the spellings written by different producers.
func parseFixed(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "fixed":
		return true
	default:
		return false
	}
}

// Header returns the decoded resource metadata.
func (r *Reader) Header() Header { return r.header }

// Next decodes the next record. It returns io.EOF once Header().NumObs
// records have been read.
//
// Errors:
//   - ErrClosed after Close.
//   - ErrTruncated when the stream ends inside a record.
//   - ErrNegativeCount for a negative neighbor count.
func (r *Reader) Next() (Record, error) {
	if r.closed {
		return Record{}, ErrClosed
	}
	if r.read >= r.header.NumObs {
		return Record{}, io.EOF
	}

	var lead [2]int32
	if err := r.readFull(&lead); err != nil {
		return Record{}, err
	}
	if lead[1] < 0 {
		return Record{}, fmt.Errorf("record %d: nn=%d: %w", r.read, lead[1], ErrNegativeCount)
	}
	nn, err := safecast.Conv[int](lead[1])
	if err != nil {
		return Record{}, fmt.Errorf("record %d: nn: %w", r.read, err)
	}
	rec := Record{Master: int64(lead[0]), Count: nn}
	if nn > 0 {
		raw := make([]int32, nn)
		if err = r.readFull(raw); err != nil {
			return Record{}, err
		}
		rec.Neighbors = make([]int64, nn)
		for i, v := range raw {
			rec.Neighbors[i] = int64(v)
		}

		if r.header.Fixed {
			var w float64
			if err = r.readFull(&w); err != nil {
				return Record{}, err
			}
			rec.Weights = make([]float64, nn)
			for i := range rec.Weights {
				rec.Weights[i] = w
			}
		} else {
			rec.Weights = make([]float64, nn)
			if err = r.readFull(rec.Weights); err != nil {
				return Record{}, err
			}
		}
		if err = r.readFull(&rec.RowSum); err != nil {
			return Record{}, err
		}
	}
	r.read++

	return rec, nil
}

// readFull decodes v and maps short reads to ErrTruncated.
func (r *Reader) readFull(v any) error {
	if err := binary.Read(r.br, byteOrder, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("record %d of %d: %w", r.read, r.header.NumObs, ErrTruncated)
		}
		return fmt.Errorf("record %d: %w", r.read, err)
	}

	return nil
}

// Close releases the underlying handle. Subsequent calls are no-ops.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	return r.rc.Close()
}
