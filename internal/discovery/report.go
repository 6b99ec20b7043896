package discovery

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v2"
)

// ReportFormat selects the discovery report encoding.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
)

// ParseReportFormat validates a format flag value.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case FormatText, FormatJSON, FormatYAML:
		return ReportFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use text, json or yaml)", s)
	}
}

// reportEntry is a single document in the serialized report.
type reportEntry struct {
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
}

// WriteReport writes the discovery results to w in the requested format.
func (d *Discovery) WriteReport(w io.Writer, format ReportFormat) error {
	switch format {
	case FormatJSON:
		return d.writeStructured(w, func(v interface{}) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		})
	case FormatYAML:
		return d.writeStructured(w, yaml.Marshal)
	default:
		return d.writeText(w)
	}
}

func (d *Discovery) writeStructured(w io.Writer, marshal func(interface{}) ([]byte, error)) error {
	out := make(map[string][]reportEntry)
	for category, docs := range d.Documents {
		entries := make([]reportEntry, len(docs))
		for i, doc := range docs {
			entries[i] = reportEntry{Title: doc.Title, Path: doc.RelPath}
		}
		out[string(category)] = entries
	}

	data, err := marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (d *Discovery) writeText(w io.Writer) error {
	categories := make([]string, 0, len(d.Documents))
	for category := range d.Documents {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	for _, category := range categories {
		docs := d.Documents[Category(category)]
		if _, err := fmt.Fprintf(w, "=== %s ===\n", TitleFromStem(category)); err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err := fmt.Fprintf(w, "%s (%s)\n", doc.Title, doc.RelPath); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(d.Orphans) > 0 {
		if _, err := fmt.Fprintln(w, "=== Orphaned ==="); err != nil {
			return err
		}
		for _, rel := range d.Orphans {
			if _, err := fmt.Fprintln(w, rel); err != nil {
				return err
			}
		}
	}
	return nil
}
