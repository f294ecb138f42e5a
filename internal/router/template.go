// Package router provides path-template routing utilities: matching request
// paths against "{param}" templates, extracting parameter values, and
// normalizing templates so two spellings of the same route compare equal.
package router

import (
	"strings"
)

// paramPlaceholder is the canonical form every "{name}" segment normalizes
// to, so parameter names do not affect route identity.
const paramPlaceholder = "{}"

// IsTemplate reports whether path contains "{param}" placeholders.
func IsTemplate(path string) bool {
	open := strings.IndexByte(path, '{')
	return open >= 0 && strings.IndexByte(path[open:], '}') > 0
}

// NormalizePath rewrites every "{name}" segment of a path template into the
// canonical placeholder. "/pets/{petId}" and "/pets/{id}" normalize to the
// same string; literal paths pass through unchanged.
func NormalizePath(path string) string {
	if !IsTemplate(path) {
		return path
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isParamSegment(seg) {
			segments[i] = paramPlaceholder
		}
	}
	return strings.Join(segments, "/")
}

// MatchTemplate reports whether a request path matches a path template,
// segment by segment. A "{name}" segment matches any single non-empty
// segment value.
func MatchTemplate(template, path string) bool {
	tSegs := strings.Split(strings.Trim(template, "/"), "/")
	pSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(tSegs) != len(pSegs) {
		return false
	}
	for i, tSeg := range tSegs {
		if isParamSegment(tSeg) {
			if pSegs[i] == "" {
				return false
			}
			continue
		}
		if tSeg != pSegs[i] {
			return false
		}
	}
	return true
}

// ExtractParams returns the parameter values a path supplies for a
// template. Call only after MatchTemplate reports a match; mismatched
// inputs yield a partial map.
func ExtractParams(template, path string) map[string]string {
	params := make(map[string]string)
	tSegs := strings.Split(strings.Trim(template, "/"), "/")
	pSegs := strings.Split(strings.Trim(path, "/"), "/")
	for i, tSeg := range tSegs {
		if i >= len(pSegs) {
			break
		}
		if isParamSegment(tSeg) {
			params[tSeg[1:len(tSeg)-1]] = pSegs[i]
		}
	}
	return params
}

func isParamSegment(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}
