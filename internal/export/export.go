// Package export renders stored test case rows into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

// Columns is the Azure DevOps import layout shared by the tabular formats.
var Columns = []string{
	"ID", "Work Item Type", "Title", "Test Step", "Step Action", "Step Expected",
	"Area Path", "Assigned To", "State", "Scenario Type",
}

func columnValues(tc models.TestCase) []string {
	return []string{
		tc.WorkItemID, tc.WorkItemType, tc.Title, tc.TestStep, tc.StepAction, tc.StepExpected,
		tc.AreaPath, tc.AssignedTo, tc.State, tc.ScenarioType,
	}
}

// UnsupportedFormatError is returned for a format name that is not registered.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Name)
}

type renderFunc func(buf *bytes.Buffer, rows []models.TestCase, exportedAt time.Time) error

// Format describes one export format.
type Format struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	ContentType string `json:"contentType"`
	Description string `json:"description"`

	filePrefix string
	render     renderFunc
}

// Document is a rendered export.
type Document struct {
	Format   Format
	Filename string
	Body     []byte
}

// Registry holds the available formats.
type Registry struct {
	formats map[string]Format
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time used for export dates and file names.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns a registry with every built-in format.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{formats: map[string]Format{}, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	for _, f := range []Format{csvFormat(), excelFormat(), jsonFormat(), markdownFormat(), yamlFormat()} {
		r.formats[f.Name] = f
	}
	return r
}

// Formats lists the registered formats by name.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the named format.
func (r *Registry) Lookup(name string) (Format, error) {
	f, ok := r.formats[name]
	if !ok {
		return Format{}, &UnsupportedFormatError{Name: name}
	}
	return f, nil
}

// Render exports rows in the named format.
func (r *Registry) Render(name string, rows []models.TestCase) (*Document, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	var buf bytes.Buffer
	if err := f.render(&buf, rows, now); err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", name, err)
	}

	return &Document{
		Format:   f,
		Filename: fmt.Sprintf("%s-%s.%s", f.filePrefix, now.Format("20060102-150405"), f.Extension),
		Body:     buf.Bytes(),
	}, nil
}
