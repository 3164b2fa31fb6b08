package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsHTML(t *testing.T) {
	assert.True(t, ContainsHTML("<p>Mix</p>"))
	assert.True(t, ContainsHTML("Mix<BR/>fry"))
	assert.False(t, ContainsHTML("Bake at t < 200 and > 180"))
	assert.False(t, ContainsHTML("plain"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Mix well.  ", "Mix well."},
		{"crlf", "Step 1\r\nStep 2", "Step 1\nStep 2"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"bold", "<p>Mix <strong>well</strong></p>", "Mix **well**"},
		{"list", "<ul><li>flour</li><li>milk</li></ul>", "- flour\n- milk"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
