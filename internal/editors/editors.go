// internal/editors/editors.go

// Package editors holds the four section editors. Each owns its own local
// editable copy of one section, validates format-level constraints itself,
// and reports changes upward as an immutable (patch, errors) pair. An
// editor only emits when its effective values differ from the snapshot it
// last emitted, which breaks the parent/child update loop by construction.
package editors

import "admission-portal/internal/models"

func equalStringMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func copyStringMap(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func equalEducation(a, b models.Education) bool {
	if len(a) != len(b) {
		return false
	}
	for level, fields := range a {
		if !equalStringMaps(fields, b[level]) {
			return false
		}
	}
	return true
}

func copyEducation(src models.Education) models.Education {
	out := make(models.Education, len(src))
	for level, fields := range src {
		out[level] = copyStringMap(fields)
	}
	return out
}
