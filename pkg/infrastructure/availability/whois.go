package availability

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// notFoundPattern matches registry replies for unregistered names that the parser does not classify
var notFoundPattern = regexp.MustCompile(`(?i)(No match|NOT FOUND|No entries found|No Data Found|not registered|Status:\s*free|Status:\s*available|No Object Found|Domain not found|is free|not been registered|not exist)`)

// LookupFunc returns the raw WHOIS reply for a domain
type LookupFunc func(ctx context.Context, domain string) (string, error)

// WhoisChecker implements service.AvailabilityChecker on top of WHOIS
type WhoisChecker struct {
	lookup LookupFunc
}

// WhoisConfig holds WHOIS checker configuration
type WhoisConfig struct {
	Timeout time.Duration
	// Lookup overrides the network client
	Lookup LookupFunc
}

// NewWhoisChecker creates a new WHOIS checker
func NewWhoisChecker(config WhoisConfig) *WhoisChecker {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Lookup == nil {
		client := whois.NewClient()
		client.SetTimeout(config.Timeout)
		config.Lookup = clientLookup(client)
	}
	return &WhoisChecker{lookup: config.Lookup}
}

// clientLookup adapts the blocking whois client to a context
func clientLookup(client *whois.Client) LookupFunc {
	return func(ctx context.Context, domain string) (string, error) {
		type reply struct {
			text string
			err  error
		}
		ch := make(chan reply, 1)
		go func() {
			text, err := client.Whois(domain)
			ch <- reply{text, err}
		}()
		select {
		case r := <-ch:
			return r.text, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Name implements service.AvailabilityChecker
func (w *WhoisChecker) Name() string {
	return "whois"
}

// Check implements service.AvailabilityChecker
func (w *WhoisChecker) Check(ctx context.Context, domain string) (entity.Verdict, error) {
	text, err := w.lookup(ctx, domain)
	if err != nil {
		return entity.Unknown, fmt.Errorf("whois lookup %s: %w", domain, err)
	}
	return classifyWhois(text)
}

func classifyWhois(text string) (entity.Verdict, error) {
	info, err := whoisparser.Parse(text)
	switch {
	case err == nil:
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return entity.Available, nil
	case errors.Is(err, whoisparser.ErrReservedDomain),
		errors.Is(err, whoisparser.ErrPremiumDomain),
		errors.Is(err, whoisparser.ErrBlockedDomain):
		return entity.Taken, nil
	default:
		if notFoundPattern.MatchString(text) {
			return entity.Available, nil
		}
		return entity.Unknown, fmt.Errorf("parse whois: %w", err)
	}

	hasRegistrar := info.Registrar != nil && strings.TrimSpace(info.Registrar.Name) != ""
	hasCreated := info.Domain != nil && strings.TrimSpace(info.Domain.CreatedDate) != ""
	if !hasRegistrar && !hasCreated {
		return entity.Available, nil
	}
	return entity.Taken, nil
}
