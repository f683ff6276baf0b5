package transport

import (
	"strings"

	"kuantokusta/internal/domain"

	utls "github.com/refraction-networking/utls"
)

// Profile names the browser whose TLS handshake outbound connections present
type Profile string

const (
	Chrome  Profile = "chrome"
	Firefox Profile = "firefox"
	Safari  Profile = "safari"
	Edge    Profile = "edge"
	// None uses the Go TLS stack with no impersonation
	None Profile = "none"
)

type fingerprint struct {
	hello     utls.ClientHelloID
	userAgent string
}

var fingerprints = map[Profile]fingerprint{
	Chrome: {
		hello:     utls.HelloChrome_Auto,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	},
	Firefox: {
		hello:     utls.HelloFirefox_Auto,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	},
	Safari: {
		hello:     utls.HelloSafari_Auto,
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Safari/605.1.15",
	},
	Edge: {
		hello:     utls.HelloEdge_Auto,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
	},
}

// ParseProfile parses a profile name, case-insensitively
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p == None {
		return p, nil
	}
	if _, ok := fingerprints[p]; ok {
		return p, nil
	}
	return "", domain.InvalidArgument("unknown impersonation profile %q (want chrome, firefox, safari, edge or none)", s)
}

// UserAgent returns the User-Agent header matching the profile's handshake
func (p Profile) UserAgent() string {
	return fingerprints[p].userAgent
}
