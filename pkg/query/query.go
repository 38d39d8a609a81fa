// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query reads optional filters from URL query strings.

Malformed values are treated as absent: list filters are conveniences, so a bad
value widens the result instead of failing the request.
*/
package query

import (
	"net/http"
	"strconv"
	"strings"
)

// Strings parses a comma-separated parameter into trimmed, non-empty values.
// Repeated keys are merged: ?status=draft&status=active,archived.
func Strings(request *http.Request, key string) []string {
	var result []string
	for _, raw := range request.URL.Query()[key] {
		for _, value := range strings.Split(raw, ",") {
			if clean := strings.TrimSpace(value); clean != "" {
				result = append(result, clean)
			}
		}
	}
	return result
}

// Int parses an integer parameter, returning def when absent or malformed.
func Int(request *http.Request, key string, def int) int {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	return def
}
