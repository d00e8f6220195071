package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnProfile summarizes one column of an input file for the inspect
// command: how many cells are populated and what they appear to hold.
type ColumnProfile struct {
	Name    string
	Kind    string // boolean|numeric|text
	NonNull int
	Missing int
}

// FileProfile is the schema-level view of an input CSV.
type FileProfile struct {
	Path    string
	Rows    int
	Columns []ColumnProfile
}

// Inspect scans a CSV and profiles every column without enforcing a schema.
// Useful for checking an input file before a full report run.
func Inspect(path string) (*FileProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{File: path, Msg: "file is empty"}
		}
		return nil, &LoadError{File: path, Err: fmt.Errorf("read header: %w", err)}
	}

	type acc struct {
		nonNull int
		missing int
		boolCnt int
		numCnt  int
		txtCnt  int
	}
	cols := make([]acc, len(header))

	prof := &FileProfile{Path: path}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{File: path, Err: fmt.Errorf("read row %d: %w", prof.Rows+1, err)}
		}
		prof.Rows++
		for i := range cols {
			v := field(rec, i)
			if isMissing(v) {
				cols[i].missing++
				continue
			}
			cols[i].nonNull++
			if b, ok := parseBool(v); ok && b != nil {
				cols[i].boolCnt++
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				cols[i].numCnt++
				continue
			}
			cols[i].txtCnt++
		}
	}

	prof.Columns = make([]ColumnProfile, len(header))
	for i, h := range header {
		c := cols[i]
		kind := "text"
		if c.boolCnt >= c.numCnt && c.boolCnt >= c.txtCnt && c.boolCnt > 0 {
			kind = "boolean"
		} else if c.numCnt >= c.txtCnt && c.numCnt > 0 {
			kind = "numeric"
		}
		prof.Columns[i] = ColumnProfile{
			Name:    strings.TrimSpace(h),
			Kind:    kind,
			NonNull: c.nonNull,
			Missing: c.missing,
		}
	}
	return prof, nil
}
