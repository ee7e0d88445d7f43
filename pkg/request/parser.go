// Package request tokenizes raw HTTP-like request text into a flat key/value mapping
package request

import "strings"

// Keys produced from the request line
const (
	KeyMethod      = "method"
	KeyEndpoint    = "endpoint"
	KeyHTTPVersion = "http-version"
)

var requestLineKeys = [...]string{KeyMethod, KeyEndpoint, KeyHTTPVersion}

// ParseRequest parses the request line and headers of raw.
//
// The request line is split on single spaces into method, endpoint and
// http-version. Each following line is split on ": " into a lower-cased header
// name and its value. Parsing stops at the blank line ending the headers.
// Trailing NUL padding from a fixed-size read buffer is ignored.
func ParseRequest(raw string) map[string]string {
	out := make(map[string]string)

	raw = strings.TrimRight(raw, "\x00")
	if raw == "" {
		return out
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if i == 0 {
			parseRequestLine(line, out)
			continue
		}
		if line == "" {
			break
		}
		parseHeader(line, out)
	}

	return out
}

func parseRequestLine(line string, out map[string]string) {
	tokens := strings.Split(line, " ")
	for i, key := range requestLineKeys {
		if i >= len(tokens) {
			return
		}
		out[key] = tokens[i]
	}
}

func parseHeader(line string, out map[string]string) {
	chunks := strings.Split(line, ": ")
	var value string
	if len(chunks) > 1 {
		value = chunks[1]
	}
	out[strings.ToLower(chunks[0])] = value
}

// Method returns the request method, or "" when absent
func Method(req map[string]string) string {
	return req[KeyMethod]
}

// Endpoint returns the request endpoint, or "" when absent
func Endpoint(req map[string]string) string {
	return req[KeyEndpoint]
}
