// Package seed loads reference data (ingredients and tags) from CSV, YAML
// or JSON files.
//
// CSV files have no header; a first row starting with "name" is skipped.
// Ingredient rows are "name,unit" and tag rows are "name[,color[,slug]]".
// YAML and JSON files hold a list of objects keyed like the API requests.
// Tags loaded without a color get one derived from their name.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foodgramapp/foodgram-server/internal/color"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

// Format is a reference data file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from the file extension. JSON is read as YAML.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .csv, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// IngredientEnsurer creates ingredients that do not exist yet.
type IngredientEnsurer interface {
	Ensure(ctx context.Context, req service.CreateIngredientRequest) (*domain.Ingredient, bool, error)
}

// TagEnsurer creates tags that do not exist yet.
type TagEnsurer interface {
	Ensure(ctx context.Context, req service.CreateTagRequest) (*domain.Tag, bool, error)
}

// Result counts what a load did.
type Result struct {
	Created  int
	Existing int
}

// ReadIngredients parses ingredient rows.
func ReadIngredients(r io.Reader, format Format) ([]service.CreateIngredientRequest, error) {
	switch format {
	case FormatCSV:
		rows, err := readCSV(r, 2, 2)
		if err != nil {
			return nil, err
		}
		out := make([]service.CreateIngredientRequest, len(rows))
		for i, row := range rows {
			out[i] = service.CreateIngredientRequest{Name: row[0], MeasurementUnit: row[1]}
		}
		return out, nil
	case FormatYAML:
		var out []service.CreateIngredientRequest
		if err := decodeYAML(r, &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ReadTags parses tag rows.
func ReadTags(r io.Reader, format Format) ([]service.CreateTagRequest, error) {
	switch format {
	case FormatCSV:
		rows, err := readCSV(r, 1, 3)
		if err != nil {
			return nil, err
		}
		out := make([]service.CreateTagRequest, len(rows))
		for i, row := range rows {
			out[i] = service.CreateTagRequest{Name: row[0]}
			if len(row) > 1 {
				out[i].Color = row[1]
			}
			if len(row) > 2 {
				out[i].Slug = row[2]
			}
		}
		return withColors(out), nil
	case FormatYAML:
		var out []service.CreateTagRequest
		if err := decodeYAML(r, &out); err != nil {
			return nil, err
		}
		return withColors(out), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func withColors(tags []service.CreateTagRequest) []service.CreateTagRequest {
	for i := range tags {
		if tags[i].Color == "" {
			tags[i].Color = color.ForTag(tags[i].Name)
		}
	}
	return tags
}

// LoadIngredients reads path and ensures every ingredient exists.
// Rows already present are counted, not rejected.
func LoadIngredients(ctx context.Context, path string, ensurer IngredientEnsurer) (Result, error) {
	reqs, err := readFile(path, ReadIngredients)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for i, req := range reqs {
		_, created, err := ensurer.Ensure(ctx, req)
		if err != nil {
			return res, fmt.Errorf("ingredient %d (%s): %w", i+1, req.Name, err)
		}
		res.count(created)
	}
	return res, nil
}

// LoadTags reads path and ensures every tag exists.
func LoadTags(ctx context.Context, path string, ensurer TagEnsurer) (Result, error) {
	reqs, err := readFile(path, ReadTags)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for i, req := range reqs {
		_, created, err := ensurer.Ensure(ctx, req)
		if err != nil {
			return res, fmt.Errorf("tag %d (%s): %w", i+1, req.Name, err)
		}
		res.count(created)
	}
	return res, nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Existing++
	}
}

func readFile[T any](path string, read func(io.Reader, Format) ([]T, error)) ([]T, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, err := read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

// readCSV returns trimmed rows with between minCols and maxCols fields.
func readCSV(r io.Reader, minCols, maxCols int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < minCols || len(record) > maxCols {
			return nil, fmt.Errorf("line %d: want %d to %d fields, got %d", line, minCols, maxCols, len(record))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
}

func decodeYAML(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
