package utils

import (
	"regexp"
	"strings"
)

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// CamelToSnake Convert a camelCase key from an uploaded label file to the
// snake_case field name used internally.
func CamelToSnake(name string) string {
	snake := matchFirstCap.ReplaceAllString(name, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// CamelToSnakeKeys Normalize all top-level keys of a record.
func CamelToSnakeKeys(record map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(record))
	for key, value := range record {
		normalized[CamelToSnake(key)] = value
	}
	return normalized
}
