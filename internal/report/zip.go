package report

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type Manifest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Chat        string    `json:"chat"`
	User        string    `json:"user"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       []string  `json:"files"`
}

// WriteZIP writes charts/<name>.png, tables/<name>.csv and manifest.json.
func WriteZIP(w io.Writer, b *Bundle) error {
	zw := zip.NewWriter(w)
	m := Manifest{
		ID:          b.ID.String(),
		Title:       Title,
		Chat:        b.Report.Chat,
		User:        b.Report.User,
		GeneratedAt: b.Report.GeneratedAt,
	}

	for _, fig := range b.Figures {
		name := "charts/" + fig.Name + ".png"
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
		if _, err := f.Write(fig.PNG); err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
		m.Files = append(m.Files, name)
	}

	tables := b.Tables
	if b.Report.Heatmap != nil {
		tables = append(tables[:len(tables):len(tables)], HeatmapTable(b.Report.Heatmap))
	}
	for _, t := range tables {
		name := "tables/" + t.Name + ".csv"
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
		if err := writeCSV(f, t); err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
		m.Files = append(m.Files, name)
	}

	f, err := zw.Create("manifest.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("zip manifest: %w", err)
	}
	return zw.Close()
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
