package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `subject_name,overview,detail_url
データ構造とアルゴリズム,リストや木構造を学ぶ,https://example.ac.jp/syllabus/101
機械学習入門,教師あり学習の基礎,https://example.ac.jp/syllabus/102
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", c.Len())
	}

	recs := c.Records()
	if recs[0].SubjectName != "データ構造とアルゴリズム" {
		t.Errorf("subject = %s", recs[0].SubjectName)
	}
	if recs[1].DetailURL != "https://example.ac.jp/syllabus/102" {
		t.Errorf("url = %s", recs[1].DetailURL)
	}
}

func TestPromptContextFormat(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := "科目名: データ構造とアルゴリズム\n概要: リストや木構造を学ぶ\n科目URL: https://example.ac.jp/syllabus/101" +
		"---\n" +
		"科目名: 機械学習入門\n概要: 教師あり学習の基礎\n科目URL: https://example.ac.jp/syllabus/102"
	if got := c.PromptContext(); got != want {
		t.Errorf("prompt context mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestParseMissingCells(t *testing.T) {
	csv := "subject_name,overview,detail_url\n線形代数,,\n"
	c, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	rec := c.Records()[0]
	if rec.Overview != "" || rec.DetailURL != "" {
		t.Errorf("missing cells should be empty strings, got %+v", rec)
	}
}

func TestParseShortRows(t *testing.T) {
	csv := "subject_name,overview,detail_url\n統計学\n"
	c, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	rec := c.Records()[0]
	if rec.SubjectName != "統計学" || rec.Overview != "" {
		t.Errorf("short row should pad with empty strings, got %+v", rec)
	}
}

func TestParseMissingColumn(t *testing.T) {
	csv := "subject_name,overview\nA,B\n"
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing detail_url column")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syllabus.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", c.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRecordsIsACopy(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	recs := c.Records()
	recs[0].SubjectName = "mutated"
	if c.Records()[0].SubjectName == "mutated" {
		t.Fatal("Records() must not expose internal state")
	}
}
