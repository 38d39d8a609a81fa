// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Emergency operation plans are addressed by slug (e.g. "flood-response-district-7").
// Plan titles are often written in local languages, so accents are folded first.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the length of a generated slug.
const MaxLength = 64

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Normalize to NFD and drop combining marks (é → e).
//  2. Lowercase, keeping ASCII letters and digits.
//  3. Collapse every other run of characters into a single hyphen.
//  4. Trim hyphens and cut to [MaxLength] on a hyphen boundary when possible.
func From(s string) string {
	chain := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	folded, _, _ := transform.String(chain, s)

	var builder strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return truncate(builder.String())
}

// Unique returns From(s), suffixed with -2, -3, ... until taken reports false.
// An input that folds to nothing yields fallback.
func Unique(s, fallback string, taken func(string) bool) string {
	base := From(s)
	if base == "" {
		base = fallback
	}

	candidate := base
	for n := 2; taken(candidate); n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate = strings.TrimRight(base[:min(len(base), MaxLength-len(suffix))], "-") + suffix
	}
	return candidate
}

func truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	s = s[:MaxLength]
	if cut := strings.LastIndexByte(s, '-'); cut > MaxLength/2 {
		s = s[:cut]
	}
	return strings.Trim(s, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
