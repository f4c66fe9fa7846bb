package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"

	"studioscan/internal/estimate"
)

// WriteMarkdown renders the report as a TODO-style effort checklist,
// one section per feature in map order.
func WriteMarkdown(w io.Writer, snap *Snapshot) error {
	report := snap.Report

	fmt.Fprintf(w, "# Studio Customization Effort Estimate\n\n")
	fmt.Fprintf(w, "Generated %s (run %s)\n\n", snap.GeneratedAt.Format("2006-01-02 15:04 MST"), snap.RunID)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Features | Components | Total hours |\n")
	fmt.Fprintf(w, "|---------:|-----------:|------------:|\n")
	fmt.Fprintf(w, "| %d | %d | %.1f |\n\n", len(report.Features), report.ComponentCount, report.TotalHours)

	byLabel := map[string]int{}
	for _, fe := range report.Features {
		for _, se := range fe.Stories {
			for _, ce := range se.Components {
				byLabel[ce.Label]++
			}
		}
	}
	if len(byLabel) > 0 {
		fmt.Fprintf(w, "Complexity distribution: %s\n\n", formatDistribution(byLabel))
	}

	for _, fe := range report.Features {
		fmt.Fprintf(w, "## %s (%.1fh)\n\n", fe.Feature.Name, fe.TotalHours)
		if fe.Feature.Description != "" && fe.Feature.Description != fe.Feature.Name {
			fmt.Fprintf(w, "%s\n\n", fe.Feature.Description)
		}
		if fe.Feature.TaskID != 0 {
			fmt.Fprintf(w, "Task: %d\n\n", fe.Feature.TaskID)
		}

		for _, se := range fe.Stories {
			fmt.Fprintf(w, "### %s (%.1fh)\n\n", se.Story.Name, se.TotalHours)
			if se.Story.Description != "" && se.Story.Description != se.Story.Name {
				fmt.Fprintf(w, "%s\n\n", se.Story.Description)
			}
			for _, ce := range se.Components {
				fmt.Fprintf(w, "- [ ] `%s` — %s, Dev %.1fh / Req %.1fh / Test %.1fh (total %.1fh)%s\n",
					ce.Component.Ref, ce.Label,
					ce.Scaled.Development, ce.Scaled.Requirements, ce.Scaled.Testing,
					ce.Hours, formatDrivers(ce))
			}
			fmt.Fprintf(w, "\n")
		}
	}

	return nil
}

// WriteTOML renders the snapshot as TOML.
func WriteTOML(w io.Writer, snap *Snapshot) error {
	if err := toml.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode TOML snapshot: %w", err)
	}
	return nil
}

// WriteJSONFile writes the snapshot as indented JSON at path. With
// compress set it writes a zstd stream instead and appends .zst to the
// path unless already present.
func WriteJSONFile(path string, snap *Snapshot, compress bool) (string, error) {
	if compress && !strings.HasSuffix(path, ".zst") {
		path += ".zst"
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return "", fmt.Errorf("failed to init zstd writer: %w", err)
		}
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return path, nil
}

// ReadJSONFile loads a snapshot written by WriteJSONFile, transparently
// handling the compressed form by extension.
func ReadJSONFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to init zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func formatDrivers(ce estimate.ComponentEstimate) string {
	if ce.Analysis == nil || len(ce.Analysis.TopContributors) == 0 {
		return ""
	}
	names := make([]string, 0, len(ce.Analysis.TopContributors))
	for _, c := range ce.Analysis.TopContributors {
		names = append(names, c.Metric)
	}
	return fmt.Sprintf(" (drivers: %s)", strings.Join(names, ", "))
}

func formatDistribution(byLabel map[string]int) string {
	order := []string{"simple", "medium", "complex", "very_complex"}
	var parts []string
	for _, label := range order {
		if n := byLabel[label]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	// Custom labels from nonstandard rule tables still get listed.
	var extra []string
	for label, n := range byLabel {
		known := false
		for _, o := range order {
			if label == o {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, fmt.Sprintf("%d %s", n, label))
		}
	}
	sort.Strings(extra)
	return strings.Join(append(parts, extra...), ", ")
}
