package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteCSV writes t with a header row. A table with no rows still gets its header.
func WriteCSV(w *csv.Writer, t *Table) error {
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(t.Strings()); err != nil {
		return err
	}
	return w.Error()
}

// ExportDir writes every table of r to dir as <site>_<table>.csv and returns the paths written.
func ExportDir(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(r.Tables))
	for _, t := range r.Tables {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", fileSafe(r.Site), t.Name))
		if err := exportFile(path, t); err != nil {
			return paths, fmt.Errorf("exporting %s: %w", t.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func exportFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(csv.NewWriter(f), t); err != nil {
		return err
	}
	return f.Close()
}

func fileSafe(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, s)
}
