package dataset

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"fraudrisk/pkg/serrors"

	"golang.org/x/net/publicsuffix"
)

// schemePrefix matches an RFC 3986 scheme followed by "//" at the start of a
// URL. A "://" later in the string belongs to the path or query.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`) //nolint: gochecknoglobals

// authority returns the userinfo/host/port part of a URL-like string, with or
// without a scheme. It ends at the first path, query or fragment delimiter;
// a backslash counts as a path separator.
func authority(s string) string {
	if loc := schemePrefix.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	} else {
		s = strings.TrimPrefix(s, "//")
	}
	if i := strings.IndexAny(s, `/?#\`); i >= 0 {
		s = s[:i]
	}

	return s
}

// RegistrableDomain returns the registrable domain (eTLD+1) of a URL-like
// string, lower-cased:
//   - a missing scheme is tolerated ("example.com/login")
//   - scheme, userinfo, port, path, query and fragment are dropped; only the
//     host has to be well formed
//   - subdomains are stripped using the public suffix list
//     ("a.b.example.co.uk" → "example.co.uk")
//
// IP literals, single-label hosts and bare public suffixes have no
// registrable domain and fail with ErrDomainExtraction.
func RegistrableDomain(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", serrors.With(ErrDomainExtraction, "empty URL")
	}

	auth := authority(s)
	if auth == "" {
		return "", serrors.With(ErrDomainExtraction, "URL %q has no host", raw)
	}
	u, err := url.Parse("http://" + auth)
	if err != nil {
		return "", serrors.Wrap(ErrDomainExtraction, err, "could not parse host of URL %q", raw)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", serrors.With(ErrDomainExtraction, "URL %q has no host", raw)
	}
	if net.ParseIP(host) != nil {
		return "", serrors.With(ErrDomainExtraction, "URL %q points to an IP address", raw)
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", serrors.Wrap(ErrDomainExtraction, err, "URL %q has no registrable domain", raw)
	}

	return registrable, nil
}
