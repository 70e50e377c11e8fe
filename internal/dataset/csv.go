package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"StockLens/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a comma-separated file with a header row.
func Load(path string) (*Frame, error) {
	return LoadDelimited(path, ',')
}

// LoadDelimited reads a delimited file with a header row.
// A missing file yields *model.NotFoundError.
func LoadDelimited(path string, comma rune) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	frame, err := Read(f, comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return frame, nil
}

// Read parses delimited text from r.
func Read(r io.Reader, comma rune) (*Frame, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file: header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	frame := &Frame{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		frame.Records = append(frame.Records, rec)
	}
	return frame, nil
}

// Save writes the frame as CSV, creating parent directories as needed.
func Save(frame *Frame, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Write encodes the frame as CSV to w.
func Write(w io.Writer, frame *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frame.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(frame.Records); err != nil {
		return err
	}
	return cw.Error()
}
