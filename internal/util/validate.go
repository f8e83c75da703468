package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateServerURL checks that raw is an absolute http or https URL with a
// host, the only form the OCS client can address:
//   - no leading or trailing whitespace, since the URL is stored verbatim
//   - scheme must be http or https
//   - host must be present
//   - query strings and fragments are not allowed, as the client appends
//     the OCS path to the stored URL
func ValidateServerURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("url is required")
	}
	if strings.TrimSpace(raw) != raw {
		return fmt.Errorf("url %q must not have leading or trailing whitespace", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url %q is not valid: %v", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return fmt.Errorf("url %q must include a scheme (http or https)", raw)
	default:
		return fmt.Errorf("url %q has unsupported scheme %q", raw, u.Scheme)
	}

	if u.Host == "" || u.Hostname() == "" {
		return fmt.Errorf("url %q must include a host", raw)
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("url %q must not contain a query or fragment", raw)
	}

	return nil
}

// HostOf returns the host portion (with port, if any) of a validated URL.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
