package facebook

import (
	"strconv"
	"strings"
)

const (
	fieldKeyQuestions  = "questions"
	fieldKeyQualifiers = "qualifiers"
)

// VersionFieldKey picks the form-schema member name by inspecting the base
// URL's version suffix. Graph API v5 renamed "qualifiers" to "questions";
// an unparsable version defaults to the modern key.
func VersionFieldKey(baseURL string) string {
	trimmed := baseURL
	if idx := strings.LastIndex(trimmed, "v"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	version, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fieldKeyQuestions
	}
	if version >= 5 {
		return fieldKeyQuestions
	}
	return fieldKeyQualifiers
}
