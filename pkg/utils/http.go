package utils

import "strings"

// DefaultUserAgent is sent to the legacy CMS, which rejects unknown agents.
const DefaultUserAgent = "curl"

// BuildHeaders creates request headers for the legacy CMS API.
// An empty secret omits the Authorization header.
func BuildHeaders(secret string, customHeaders map[string]string) map[string]string {
	headers := map[string]string{
		"User-Agent":   DefaultUserAgent,
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}

	if secret != "" {
		headers["Authorization"] = secret
	}

	for key, value := range customHeaders {
		headers[key] = value
	}

	return headers
}

// JoinURL joins a base (typically a domain) and a path with exactly one slash between them.
func JoinURL(base, path string) string {
	if base == "" {
		return path
	}

	if path == "" {
		return base
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
