package validation

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRules_ValidInputRoundTrips(t *testing.T) {
	tests := []struct {
		name  string
		rule  func(string) (string, error)
		input string
	}{
		{"tag latin", TagName, "Breakfast"},
		{"tag cyrillic", TagName, "Завтрак"},
		{"tag yo", TagName, "Ёлочка"},
		{"recipe with punctuation", RecipeName, `Блины "по-бабушкиному" (с мёдом)`},
		{"recipe guillemets", RecipeName, "Салат «Оливье»"},
		{"recipe latin", RecipeName, "Pancakes"},
		{"ingredient with percent", IngredientName, "молоко 3%"},
		{"ingredient with digits", IngredientName, "Flour type 550"},
		{"person name", PersonName, "Anna-Maria"},
		{"username", Username, "chef.anna+1@home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestNameRules_ReportDisallowedCharacters(t *testing.T) {
	tests := []struct {
		name  string
		rule  func(string) (string, error)
		input string
		want  []rune
	}{
		{"tag with digit and space", TagName, "Tag 1", []rune{' ', '1'}},
		{"recipe with digits", RecipeName, "Pie 3.14", []rune{'3', '.', '1', '4'}},
		{"recipe repeated char reported once", RecipeName, "Pie!!!", []rune{'!'}},
		{"ingredient with slash", IngredientName, "salt/pepper", []rune{'/'}},
		{"person with digit", PersonName, "Ann4", []rune{'4'}},
		{"username with space", Username, "bad name", []rune{' '}},
		{"username with cyrillic", Username, "повар", []rune{'п', 'о', 'в', 'а', 'р'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rule(tt.input)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.want, fe.Disallowed)
			assert.Contains(t, fe.Message, "disallowed")
		})
	}
}

func TestNameRules_EmptyRejected(t *testing.T) {
	for _, rule := range []func(string) (string, error){TagName, RecipeName, IngredientName, PersonName, Username} {
		_, err := rule("")
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "must not be empty", fe.Message)
	}
}

// The reported characters must equal the set difference between the input
// and the permitted set. The oracle is a regexp character class.
func TestNameRules_DisallowedIsExactSetDifference(t *testing.T) {
	tests := []struct {
		name    string
		rule    func(string) (string, error)
		allowed *regexp.Regexp
	}{
		{"tag", TagName, regexp.MustCompile(`^[а-яА-Яa-zA-ZёЁ]$`)},
		{"recipe", RecipeName, regexp.MustCompile(`^[а-яА-Яa-zA-ZёЁ\s\-()"'«»]$`)},
		{"ingredient", IngredientName, regexp.MustCompile(`^[а-яА-Яa-zA-Z0-9ёЁ\s\-()"'«»%]$`)},
		{"person", PersonName, regexp.MustCompile(`^[а-яА-Яa-zA-ZёЁ\s\-]$`)},
	}

	alphabet := []rune("aZяЁё 7-()\"'«»%!?.,#@_/\\$&*+=~фЖ09\t")
	rng := rand.New(rand.NewSource(42))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				n := 1 + rng.Intn(12)
				input := make([]rune, n)
				for j := range input {
					input[j] = alphabet[rng.Intn(len(alphabet))]
				}

				var want []rune
				seen := map[rune]bool{}
				for _, r := range input {
					if !tt.allowed.MatchString(string(r)) && !seen[r] {
						seen[r] = true
						want = append(want, r)
					}
				}

				got, err := tt.rule(string(input))
				if len(want) == 0 {
					require.NoError(t, err, "input %q", string(input))
					assert.Equal(t, string(input), got)
					continue
				}
				var fe *FieldError
				require.ErrorAs(t, err, &fe, "input %q", string(input))
				assert.Equal(t, want, fe.Disallowed, "input %q", string(input))
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		disallowed []rune
	}{
		{"valid upper", "#49B64E", false, nil},
		{"valid lower", "#ffaa00", false, nil},
		{"three digit form rejected", "#FFF", true, nil},
		{"missing hash", "1234567", true, nil},
		{"too long", "#1234567", true, nil},
		{"non hex characters", "#GG00ZZ", true, []rune{'G', 'Z'}},
		{"hash in the middle", "#12#456", true, []rune{'#'}},
		{"empty", "", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Color(tt.input)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "color", fe.Field)
			assert.Equal(t, tt.disallowed, fe.Disallowed)
		})
	}
}

func TestUsername_Reserved(t *testing.T) {
	_, err := Username("me")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "reserved")

	_, err = Username("meme")
	assert.NoError(t, err)
}

func TestMinimumValues(t *testing.T) {
	_, err := Amount(0)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "amount", fe.Field)
	assert.Equal(t, "must be at least 1", fe.Message)

	got, err := Amount(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = CookingTime(-5)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "cooking_time", fe.Field)

	got, err = CookingTime(15)
	require.NoError(t, err)
	assert.Equal(t, 15, got)
}
