// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Technologies is the canonical technology tag list of a project.
// On the wire it is accepted either as a comma-joined string or as an array
// of strings; both decode to the same trimmed list.
type Technologies []string

// ParseTechnologies splits a comma-joined list, trimming entries and dropping
// empty ones.
func ParseTechnologies(s string) Technologies {
	var out Technologies
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (t *Technologies) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding technologies string: %w", err)
		}
		*t = ParseTechnologies(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decoding technologies list: %w", err)
		}
		var out Technologies
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*t = out
		return nil
	}

	return fmt.Errorf("technologies must be a string or a list, got %s", string(data))
}

// String joins the list with ", " for form fields.
func (t Technologies) String() string {
	return strings.Join(t, ", ")
}

// Contains reports whether the list holds name, ignoring case.
func (t Technologies) Contains(name string) bool {
	for _, item := range t {
		if strings.EqualFold(item, name) {
			return true
		}
	}
	return false
}
