package availability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
)

// HTTPChecker implements service.AvailabilityChecker by probing the domain's web server
type HTTPChecker struct {
	client    *http.Client
	scheme    string
	userAgent string
}

// HTTPConfig holds HTTP checker configuration
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Scheme defaults to http
	Scheme string
	// Transport overrides the default transport, mostly for tests
	Transport http.RoundTripper
}

// NewHTTPChecker creates a new HTTP checker
func NewHTTPChecker(config HTTPConfig) *HTTPChecker {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Scheme == "" {
		config.Scheme = "http"
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (compatible; DomainHunter/2.0)"
	}

	return &HTTPChecker{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		scheme:    config.Scheme,
		userAgent: config.UserAgent,
	}
}

// Name implements service.AvailabilityChecker
func (c *HTTPChecker) Name() string {
	return "http"
}

// Check implements service.AvailabilityChecker
func (c *HTTPChecker) Check(ctx context.Context, domain string) (entity.Verdict, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scheme+"://"+domain, nil)
	if err != nil {
		return entity.Unknown, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isConnectionFailure(err) {
			return entity.Available, nil
		}
		return entity.Unknown, fmt.Errorf("http probe %s: %w", domain, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 500 {
		return entity.Taken, nil
	}
	return entity.Unknown, fmt.Errorf("http probe %s: status %d", domain, resp.StatusCode)
}

// isConnectionFailure reports refused connections and unresolvable hosts; timeouts are not failures
func isConnectionFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, os.ErrDeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
