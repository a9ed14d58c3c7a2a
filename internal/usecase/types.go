package usecase

import (
	"strings"
)

// contactKeys are the fields a nested "contact" object may carry that the
// resume template reads from the top level.
var contactKeys = []string{"phone", "email", "linkedin", "github", "website", "location"}

// NormalizeRecord reshapes common input variants into the fields the
// resume template expects. It returns a new map and never modifies record.
//
//   - a "contact" object is flattened into top-level fields that are not
//     already set
//   - education entries get "institution" from "school" and "location"
//     from "city"/"state" when those are missing
func NormalizeRecord(record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(record)+len(contactKeys))
	for k, v := range record {
		out[k] = v
	}

	if contact, ok := record["contact"].(map[string]interface{}); ok {
		for _, k := range contactKeys {
			v, ok := contact[k]
			if !ok || isBlank(v) {
				continue
			}
			if cur, exists := out[k]; exists && !isBlank(cur) {
				continue
			}
			out[k] = v
		}
	}

	if edu, ok := record["education"]; ok {
		out["education"] = normalizeEducation(edu)
	}
	return out
}

func normalizeEducation(v interface{}) interface{} {
	var entries []interface{}
	switch t := v.(type) {
	case []interface{}:
		entries = t
	case []map[string]interface{}:
		entries = make([]interface{}, len(t))
		for i, m := range t {
			entries[i] = m
		}
	default:
		return v
	}

	out := make([]interface{}, len(entries))
	for i, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			out[i] = e
			continue
		}
		cp := make(map[string]interface{}, len(m)+2)
		for k, val := range m {
			cp[k] = val
		}
		if isBlank(cp["institution"]) && !isBlank(cp["school"]) {
			cp["institution"] = cp["school"]
		}
		if isBlank(cp["location"]) {
			if loc := joinNonEmpty(", ", m["city"], m["state"]); loc != "" {
				cp["location"] = loc
			}
		}
		out[i] = cp
	}
	return out
}

func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func joinNonEmpty(sep string, vals ...interface{}) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, sep)
}
