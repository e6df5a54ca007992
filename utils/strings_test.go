package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"backgroundColor", "background_color"},
		{"textColor", "text_color"},
		{"prefixKey", "prefix_key"},
		{"suffixKey", "suffix_key"},
		{"text", "text"},
		{"already_snake", "already_snake"},
		{"HTTPCode", "http_code"},
		{"labelType2", "label_type2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CamelToSnake(tt.in), tt.in)
	}
}

func TestCamelToSnakeKeys(t *testing.T) {
	record := map[string]interface{}{
		"text":            "person",
		"backgroundColor": "#ff0000",
		"prefixKey":       "p",
	}
	normalized := CamelToSnakeKeys(record)
	assert.Equal(t, map[string]interface{}{
		"text":             "person",
		"background_color": "#ff0000",
		"prefix_key":       "p",
	}, normalized)
}
