package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

const utf8BOM = "\ufeff"

// envelope wraps rows for the structured formats.
type envelope struct {
	ExportDate     string            `json:"exportDate" yaml:"exportDate"`
	TotalTestCases int               `json:"totalTestCases" yaml:"totalTestCases"`
	TestCases      []models.TestCase `json:"testCases" yaml:"testCases"`
}

func newEnvelope(rows []models.TestCase, exportedAt time.Time) envelope {
	if rows == nil {
		rows = []models.TestCase{}
	}
	return envelope{
		ExportDate:     exportedAt.Format(time.RFC3339),
		TotalTestCases: len(rows),
		TestCases:      rows,
	}
}

func csvFormat() Format {
	return Format{
		Name:        "csv",
		Extension:   "csv",
		ContentType: "text/csv; charset=utf-8",
		Description: "Azure DevOps test case import (comma separated)",
		filePrefix:  "test-cases",
		render: func(buf *bytes.Buffer, rows []models.TestCase, _ time.Time) error {
			w := csv.NewWriter(buf)
			if err := w.Write(Columns); err != nil {
				return err
			}
			for _, tc := range rows {
				if err := w.Write(columnValues(tc)); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}

var tabReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func excelFormat() Format {
	return Format{
		Name:        "excel",
		Extension:   "csv",
		ContentType: "text/csv; charset=utf-8",
		Description: "Tab separated with a UTF-8 byte order mark, for Excel",
		filePrefix:  "test-cases-excel",
		render: func(buf *bytes.Buffer, rows []models.TestCase, _ time.Time) error {
			buf.WriteString(utf8BOM)
			buf.WriteString(strings.Join(Columns, "\t"))
			buf.WriteByte('\n')
			for _, tc := range rows {
				values := columnValues(tc)
				for i, v := range values {
					values[i] = tabReplacer.Replace(v)
				}
				buf.WriteString(strings.Join(values, "\t"))
				buf.WriteByte('\n')
			}
			return nil
		},
	}
}

func jsonFormat() Format {
	return Format{
		Name:        "json",
		Extension:   "json",
		ContentType: "application/json",
		Description: "JSON document with export date and rows",
		filePrefix:  "test-cases",
		render: func(buf *bytes.Buffer, rows []models.TestCase, exportedAt time.Time) error {
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			return enc.Encode(newEnvelope(rows, exportedAt))
		},
	}
}

func yamlFormat() Format {
	return Format{
		Name:        "yaml",
		Extension:   "yaml",
		ContentType: "application/yaml",
		Description: "YAML document with export date and rows",
		filePrefix:  "test-cases",
		render: func(buf *bytes.Buffer, rows []models.TestCase, exportedAt time.Time) error {
			enc := yaml.NewEncoder(buf)
			enc.SetIndent(2)
			if err := enc.Encode(newEnvelope(rows, exportedAt)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

func markdownFormat() Format {
	return Format{
		Name:        "markdown",
		Extension:   "md",
		ContentType: "text/markdown; charset=utf-8",
		Description: "Markdown table",
		filePrefix:  "test-cases",
		render: func(buf *bytes.Buffer, rows []models.TestCase, exportedAt time.Time) error {
			buf.WriteString("# Test Cases Export\n\n")
			fmt.Fprintf(buf, "- Export date: %s\n", exportedAt.Format(time.RFC3339))
			fmt.Fprintf(buf, "- Total rows: %d\n\n", len(rows))

			buf.WriteString("| " + strings.Join(Columns, " | ") + " |\n")
			buf.WriteString("|" + strings.Repeat(" --- |", len(Columns)) + "\n")
			for _, tc := range rows {
				values := columnValues(tc)
				for i, v := range values {
					values[i] = markdownCell.Replace(v)
				}
				buf.WriteString("| " + strings.Join(values, " | ") + " |\n")
			}
			return nil
		},
	}
}
