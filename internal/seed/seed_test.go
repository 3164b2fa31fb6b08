package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/color"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

type fakeIngredients struct {
	seen map[string]bool
}

func (f *fakeIngredients) Ensure(_ context.Context, req service.CreateIngredientRequest) (*domain.Ingredient, bool, error) {
	key := req.Name + "|" + req.MeasurementUnit
	if f.seen[key] {
		return &domain.Ingredient{Name: req.Name}, false, nil
	}
	f.seen[key] = true
	return &domain.Ingredient{Name: req.Name}, true, nil
}

type fakeTags struct {
	got []service.CreateTagRequest
}

func (f *fakeTags) Ensure(_ context.Context, req service.CreateTagRequest) (*domain.Tag, bool, error) {
	f.got = append(f.got, req)
	return &domain.Tag{Name: req.Name}, true, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"ingredients.csv", FormatCSV, false},
		{"INGREDIENTS.CSV", FormatCSV, false},
		{"tags.yaml", FormatYAML, false},
		{"tags.yml", FormatYAML, false},
		{"ingredients.json", FormatYAML, false},
		{"notes.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadIngredients_CSV(t *testing.T) {
	in := "name,measurement_unit\nабрикосовое варенье, г\negg,pcs\n\n"
	got, err := ReadIngredients(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []service.CreateIngredientRequest{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "egg", MeasurementUnit: "pcs"},
	}, got)
}

func TestReadIngredients_CSVBadRow(t *testing.T) {
	_, err := ReadIngredients(strings.NewReader("flour,g\nsalt\n"), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadIngredients_JSON(t *testing.T) {
	in := `[{"name": "flour", "measurement_unit": "g"}, {"name": "milk", "measurement_unit": "ml"}]`
	got, err := ReadIngredients(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "milk", got[1].Name)
	assert.Equal(t, "ml", got[1].MeasurementUnit)
}

func TestReadTags_CSVDerivesColor(t *testing.T) {
	got, err := ReadTags(strings.NewReader("Breakfast,#E26C2D,morning\nDinner\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, service.CreateTagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "morning"}, got[0])
	assert.Equal(t, color.ForTag("Dinner"), got[1].Color)
}

func TestReadTags_YAMLUnknownField(t *testing.T) {
	in := "- name: Breakfast\n  colour: '#E26C2D'\n"
	_, err := ReadTags(strings.NewReader(in), FormatYAML)
	assert.Error(t, err)
}

func TestLoadIngredients_CountsExisting(t *testing.T) {
	path := writeFile(t, "ingredients.csv", "flour,g\negg,pcs\nflour,g\n")
	ensurer := &fakeIngredients{seen: map[string]bool{"egg|pcs": true}}

	res, err := LoadIngredients(context.Background(), path, ensurer)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Existing: 2}, res)
}

func TestLoadTags_YAML(t *testing.T) {
	path := writeFile(t, "tags.yaml", `
- name: Breakfast
  color: "#E26C2D"
  slug: breakfast
- name: Dinner
  color: "#49B64E"
`)
	ensurer := &fakeTags{}

	res, err := LoadTags(context.Background(), path, ensurer)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, ensurer.got, 2)
	assert.Equal(t, "breakfast", ensurer.got[0].Slug)
	assert.Equal(t, "#49B64E", ensurer.got[1].Color)
	assert.Empty(t, ensurer.got[1].Slug)
}

func TestLoadTags_MissingFile(t *testing.T) {
	_, err := LoadTags(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), &fakeTags{})
	assert.Error(t, err)
}
