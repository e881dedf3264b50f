package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds element, variant and session identifiers.
const maxIDLength = 128

// idRegex matches identifiers usable as SVG ids and cache key segments.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateID validates an element or variant identifier.
//
// Identifiers end up in SVG element ids, JSON scene documents and cache keys,
// so the rules are conservative:
//   - No empty ids
//   - No whitespace or control characters
//   - Letters, digits, '.', '_', ':' and '-' only, starting with a letter or digit
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidElement, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidElement, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidElement, "id %q contains whitespace or control characters", id)
		}
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidElement, "invalid id: %q", id)
	}
	return nil
}

// definitionExts lists the accepted transmission definition file extensions.
var definitionExts = map[string]bool{
	".toml": true,
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidateDefinitionPath checks that a path names a supported definition file.
func ValidateDefinitionPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !definitionExts[ext] {
		return New(ErrCodeInvalidFormat, "unsupported definition format %q (must be .toml, .yaml, .yml or .json)", ext)
	}
	return nil
}

// ValidateFingerprint checks a content-addressed overlap fingerprint: either
// empty (no overlaps) or 64 lowercase hex characters.
func ValidateFingerprint(fp string) error {
	if fp == "" {
		return nil
	}
	if len(fp) != 64 {
		return New(ErrCodeInvalidInput, "fingerprint must be 64 hex characters")
	}
	for _, r := range fp {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return New(ErrCodeInvalidInput, "fingerprint must be lowercase hex")
		}
	}
	return nil
}
