package urlutil

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest accepted input, counted in code points.
const MaxLength = 255

var (
	ErrEmptyURL  = errors.New("url is empty")
	ErrTooLong   = errors.New("url is too long")
	ErrMalformed = errors.New("url is malformed")
)

// IsValidationError reports whether err came from Normalize rejecting its input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyURL) || errors.Is(err, ErrTooLong) || errors.Is(err, ErrMalformed)
}

// Normalize validates raw user input as an absolute http(s) URL and reduces it
// to "scheme://host". Path, query, fragment, port and credentials are dropped.
// Host case is preserved as submitted.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if utf8.RuneCountInString(raw) > MaxLength {
		return "", ErrTooLong
	}
	if !utf8.ValidString(raw) {
		return "", ErrMalformed
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Opaque != "" {
		return "", ErrMalformed
	}
	// url.Parse already lowercases the scheme.
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrMalformed
	}

	host := u.Hostname()
	if host == "" {
		return "", ErrMalformed
	}
	if strings.HasPrefix(host, ".") || strings.Contains(host, "..") {
		return "", ErrMalformed
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	} else if !validLabels(host) {
		return "", ErrMalformed
	}

	return u.Scheme + "://" + host, nil
}

// validLabels rejects DNS labels that start or end with a hyphen.
func validLabels(host string) bool {
	for _, label := range strings.Split(host, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}
