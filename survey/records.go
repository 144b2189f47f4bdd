package survey

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadResult is what LoadRecords read, plus how many rows it had to skip.
type LoadResult struct {
	Records []Record

	// SkippedRows counts rows that were not valid mappings (blank lines,
	// non-object JSONL rows, rows with a column-count mismatch).
	SkippedRows int
}

// LoadRecords reads survey rows from a .csv export (header row becomes the
// keys) or a .jsonl dump (one object per line). Keys and values are trimmed;
// malformed rows are skipped and counted, never fatal. The engine itself is
// agnostic to where records came from.
func LoadRecords(path string) (LoadResult, error) {
	if path == "" {
		return LoadResult{}, errors.New("LoadRecords: path is empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".jsonl":
		return loadJSONL(path)
	default:
		return LoadResult{}, fmt.Errorf("LoadRecords: unsupported input extension %q (want .csv or .jsonl)", filepath.Ext(path))
	}
}

func loadCSV(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("LoadRecords: open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged exports happen; skip bad rows ourselves

	header, err := r.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("LoadRecords: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var res LoadResult
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return LoadResult{}, fmt.Errorf("LoadRecords: read row: %w", err)
		}
		if len(row) != len(header) {
			res.SkippedRows++
			continue
		}
		rec := make(Record, len(header))
		empty := true
		for i, h := range header {
			if h == "" {
				continue
			}
			v := strings.TrimSpace(row[i])
			rec[h] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			res.SkippedRows++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func loadJSONL(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("LoadRecords: open: %w", err)
	}
	defer f.Close()

	var res LoadResult
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			res.SkippedRows++
			continue
		}
		rec := make(Record, len(raw))
		for k, v := range raw {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			rec[k] = stringifyValue(v)
		}
		if len(rec) == 0 {
			res.SkippedRows++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("LoadRecords: scan: %w", err)
	}
	return res, nil
}

// stringifyValue flattens the JSON value types a survey export actually
// contains. Anything structured is dropped to an empty string rather than
// carried through the pipeline.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return ""
	}
}
