// Package catalog loads the course syllabus dataset and renders it into the
// system prompt context used by the generative responder. The dataset is read
// once at startup and never mutated.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a single syllabus row.
type Record struct {
	SubjectName string
	Overview    string
	DetailURL   string
}

// Catalog is an immutable collection of syllabus records.
type Catalog struct {
	records []Record
	context string
}

const recordSeparator = "---\n"

// Load reads a syllabus CSV with header columns subject_name, overview and
// detail_url. Missing cells become empty strings. Unknown columns are
// ignored.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads syllabus records from r. See Load.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"subject_name", "overview", "detail_url"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog: missing column %q", required)
		}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read row: %w", err)
		}
		records = append(records, Record{
			SubjectName: cell(row, col["subject_name"]),
			Overview:    cell(row, col["overview"]),
			DetailURL:   cell(row, col["detail_url"]),
		})
	}

	return &Catalog{
		records: records,
		context: formatRecords(records),
	}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// PromptContext returns the serialized catalog injected into the model's
// system instruction. Built once at load time.
func (c *Catalog) PromptContext() string {
	return c.context
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the loaded records.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

func formatRecords(records []Record) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, fmt.Sprintf("科目名: %s\n概要: %s\n科目URL: %s", rec.SubjectName, rec.Overview, rec.DetailURL))
	}
	return strings.Join(parts, recordSeparator)
}
