package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"lowercases", "UPPER Case", "upper-case"},
		{"collapses runs", "a -- b!!c", "a-b-c"},
		{"trims edges", "  !Hello!  ", "hello"},
		{"numbers kept", "Go 1.21 released", "go-1-21-released"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
		{"same slug different titles", "Hello, World?", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
