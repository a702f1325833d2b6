package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/miekg/dns"
)

// DNSChecker implements service.AvailabilityChecker with an A query
type DNSChecker struct {
	servers []string
	timeout time.Duration
	client  *dns.Client
}

// DNSConfig holds DNS checker configuration
type DNSConfig struct {
	Servers []string
	Timeout time.Duration
	Net     string
}

// NewDNSChecker creates a new DNS checker
func NewDNSChecker(config DNSConfig) *DNSChecker {
	if len(config.Servers) == 0 {
		config.Servers = []string{
			"8.8.8.8:53",
			"8.8.4.4:53",
			"1.1.1.1:53",
			"1.0.0.1:53",
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	return &DNSChecker{
		servers: config.Servers,
		timeout: config.Timeout,
		client: &dns.Client{
			Net:     config.Net,
			Timeout: config.Timeout,
		},
	}
}

// Name implements service.AvailabilityChecker
func (c *DNSChecker) Name() string {
	return "dns"
}

// Check implements service.AvailabilityChecker
func (c *DNSChecker) Check(ctx context.Context, domain string) (entity.Verdict, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	var response *dns.Msg

	// Try each DNS server
	for _, server := range c.servers {
		if err := ctx.Err(); err != nil {
			return entity.Unknown, err
		}
		queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, _, err := c.client.ExchangeContext(queryCtx, msg, server)
		cancel()

		if err == nil && resp != nil {
			response = resp
			break
		}
		lastErr = err
	}

	if response == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("no response from any DNS server")
		}
		return entity.Unknown, fmt.Errorf("dns query %s: %w", domain, lastErr)
	}

	switch response.Rcode {
	case dns.RcodeNameError:
		return entity.Available, nil
	case dns.RcodeSuccess:
		if len(response.Answer) > 0 {
			return entity.Taken, nil
		}
		return entity.Unknown, nil
	default:
		return entity.Unknown, fmt.Errorf("dns query %s: rcode %s", domain, dns.RcodeToString[response.Rcode])
	}
}
