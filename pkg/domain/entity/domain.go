package entity

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Verdict is the tri-state outcome of an availability check
type Verdict int

const (
	// Unknown means the check could not decide
	Unknown Verdict = iota
	// Available means the domain looks registrable
	Available
	// Taken means the domain looks registered
	Taken
)

func (v Verdict) String() string {
	switch v {
	case Available:
		return "available"
	case Taken:
		return "taken"
	default:
		return "unknown"
	}
}

// IsConclusive reports whether the verdict is Available or Taken
func (v Verdict) IsConclusive() bool {
	return v == Available || v == Taken
}

// DomainCandidate is a generated name paired with an extension
type DomainCandidate struct {
	Name      string
	Extension string
}

// FQDN returns the fully qualified domain name
func (c DomainCandidate) FQDN() string {
	return c.Name + NormalizeExtension(c.Extension)
}

// NormalizeExtension lowercases an extension and makes sure it starts with a dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SplitDomain splits a domain into its name and its public suffix (with leading dot).
// "quicklab.co.uk" -> ("quicklab", ".co.uk").
func SplitDomain(domain string) (name, extension string) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	suffix, _ := publicsuffix.PublicSuffix(domain)
	if suffix == "" || suffix == domain {
		if i := strings.LastIndex(domain, "."); i >= 0 {
			return domain[:i], domain[i:]
		}
		return domain, ""
	}
	name = strings.TrimSuffix(domain, "."+suffix)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name, "." + suffix
}

// ExtensionKey returns the extension without its leading dot, as used in histograms
func ExtensionKey(ext string) string {
	return strings.TrimPrefix(NormalizeExtension(ext), ".")
}
