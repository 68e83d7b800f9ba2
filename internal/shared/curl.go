// Utilities for lifting a bearer token out of a copied cURL command.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+'([^']+)'|(?:-H|--header)\s+"([^"]+)"`)
	curlURLRegex    = regexp.MustCompile(`curl\s+(?:-X\s+\w+\s+)?'?"?(https?://[^\s'"]+)`)
)

// CurlRequest is the subset of a cURL command needed to reuse its credentials.
type CurlRequest struct {
	URL     string
	Headers map[string]string
}

// ParseCurlFile reads a file containing a cURL command (e.g. "Copy as cURL" from browser devtools).
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts the URL and headers from a cURL command, joining backslash-continued lines.
//
// Header names are lowercased.
func ParseCurlCommand(data []byte) (*CurlRequest, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\\r\n", " ")

	req := &CurlRequest{Headers: make(map[string]string)}
	if m := curlURLRegex.FindStringSubmatch(cmd); len(m) > 1 {
		req.URL = m[1]
	}

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(cmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		req.Headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	if len(req.Headers) == 0 {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidArgument)
	}
	return req, nil
}

// BearerToken returns the token from the Authorization header.
func (c *CurlRequest) BearerToken() (string, error) {
	auth, ok := c.Headers["authorization"]
	if !ok {
		return "", fmt.Errorf("%w: no authorization header in curl command", ErrMissingArgument)
	}

	scheme, token, found := strings.Cut(auth, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: authorization header is not a bearer token", ErrInvalidArgument)
	}
	return strings.TrimSpace(token), nil
}
