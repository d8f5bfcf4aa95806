// Package model defines the extracted records and the table they are exported from.
package model

import "strings"

// DefaultFields is the field list requested when none is configured.
var DefaultFields = []string{"Document", "deadline", "Responsibility"}

// Field is one named value in a Record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one extracted entry: field names mapped to string values, in the
// order the LLM emitted them.
type Record []Field

// Get returns the value for name and whether the record has that field.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set assigns value to name. An existing field keeps its position.
func (r Record) Set(name, value string) Record {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Name: name, Value: value})
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, f := range r {
		m[f.Name] = f.Value
	}
	return m
}

// NormalizeFields trims names and drops blanks and duplicates, keeping first occurrence.
// An empty result falls back to DefaultFields.
func NormalizeFields(fields []string) []string {
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultFields...)
	}
	return out
}
