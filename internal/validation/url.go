// Package validation checks user-controlled URLs and request paths before
// they reach the network or the content directory.
package validation

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ValidateURL validates the upstream base URLs the stat client talks to.
// Only absolute http/https URLs with a host and without shell
// metacharacters are accepted.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	dangerous := []string{";", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r", " "}
	for _, char := range dangerous {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// DocPath maps a request path under basePath to a slash-separated path
// relative to the content root. The base path itself maps to ".".
func DocPath(basePath, requestPath string) (string, error) {
	if strings.ContainsRune(requestPath, 0) {
		return "", fmt.Errorf("path contains NUL byte")
	}

	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return "", fmt.Errorf("path contains traversal: %s", requestPath)
		}
	}

	base := strings.TrimSuffix(basePath, "/")
	trimmed := strings.TrimSuffix(requestPath, "/")
	if trimmed == base {
		return ".", nil
	}

	rel, ok := strings.CutPrefix(trimmed, base+"/")
	if !ok {
		return "", fmt.Errorf("path %s is outside %s", requestPath, basePath)
	}

	rel = path.Clean(rel)
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path escapes the content root: %s", requestPath)
	}

	return rel, nil
}
