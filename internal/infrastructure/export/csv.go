package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
)

const dateLayout = "2006-01-02"

// CSVExporter writes one file per resource type into the export
// directory, with the fixed column orders the dashboard expects.
type CSVExporter struct {
	dir    string
	logger *slog.Logger
}

var _ ports.Exporter = (*CSVExporter)(nil)

// NewCSVExporter points the exporter at a target directory.
func NewCSVExporter(dir string, log *slog.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: log}
}

// Export writes the run result. Review files carry sentiment and
// confidence columns only when classification actually ran; consumers
// degrade to unclassified views when those columns are absent.
func (e *CSVExporter) Export(result domain.RunResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(e.dir, string(result.Source)+"s.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := e.write(writer, result); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if e.logger != nil {
		e.logger.Info("exported csv", "path", path, "rows", len(result.Records))
	}
	return nil
}

func (e *CSVExporter) write(writer *csv.Writer, result domain.RunResult) error {
	header, row := layout(result)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range result.Records {
		if err := writer.Write(row(record)); err != nil {
			return err
		}
	}
	return nil
}

func layout(result domain.RunResult) ([]string, func(domain.Record) []string) {
	switch result.Source {
	case domain.SourceProduct:
		return []string{"title", "page"}, func(r domain.Record) []string {
			return []string{r.Text, strconv.Itoa(r.Page)}
		}
	case domain.SourceTestimonial:
		return []string{"text", "page"}, func(r domain.Record) []string {
			return []string{r.Text, strconv.Itoa(r.Page)}
		}
	default:
		if !result.Classified {
			return []string{"date", "text", "page"}, func(r domain.Record) []string {
				return []string{formatDate(r), r.Text, strconv.Itoa(r.Page)}
			}
		}
		return []string{"date", "text", "sentiment", "confidence", "page"}, func(r domain.Record) []string {
			return []string{
				formatDate(r),
				r.Text,
				string(r.Sentiment),
				strconv.FormatFloat(r.Confidence, 'f', -1, 64),
				strconv.Itoa(r.Page),
			}
		}
	}
}

func formatDate(r domain.Record) string {
	if !r.Resolved() {
		return ""
	}
	return r.PostedAt.Format(dateLayout)
}
