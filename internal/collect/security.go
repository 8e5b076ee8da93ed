package collect

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"site-audit/internal/audit"
)

// SecurityProbe checks transport security: certificate state, the
// HTTP to HTTPS redirect, and hardening response headers.
type SecurityProbe struct {
	dialTimeout time.Duration
	client      *http.Client
}

func NewSecurityProbe(timeout time.Duration) *SecurityProbe {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SecurityProbe{
		dialTimeout: timeout,
		client: &http.Client{
			Timeout: timeout,
			// Redirects are inspected, not followed; the probe wants
			// the first hop's Location.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Probe builds the security signal group for a URL. Page headers and
// the mixed-content count come from the page collector so a single
// fetch serves both groups.
func (p *SecurityProbe) Probe(ctx context.Context, rawURL string, pageHeaders http.Header, mixedCount int) (*audit.SecuritySignals, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		return nil, fmt.Errorf("url has no host: %q", rawURL)
	}

	signals := &audit.SecuritySignals{
		HTTPS:             strings.EqualFold(parsed.Scheme, "https"),
		MixedContentCount: mixedCount,
	}
	if pageHeaders != nil {
		signals.HSTS = pageHeaders.Get("Strict-Transport-Security") != ""
		signals.XFrameOptions = pageHeaders.Get("X-Frame-Options") != ""
		signals.XContentTypeOptions = pageHeaders.Get("X-Content-Type-Options") != ""
		signals.CSP = pageHeaders.Get("Content-Security-Policy") != ""
		signals.XXSSProtection = pageHeaders.Get("X-XSS-Protection") != ""
	}

	if signals.HTTPS {
		valid, expiryDays, err := p.certificateState(ctx, host, parsed.Port())
		if err == nil {
			signals.CertValid = valid
			signals.CertExpiryDays = expiryDays
		}
		signals.RedirectsToHTTPS = p.httpRedirectsToHTTPS(ctx, host)
	}
	return signals, nil
}

func (p *SecurityProbe) certificateState(ctx context.Context, host, port string) (bool, int, error) {
	if port == "" {
		port = "443"
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.dialTimeout},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		// Handshake failure with a verification error means the cert
		// is present but untrusted or expired.
		if strings.Contains(err.Error(), "certificate") {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("tls dial: %w", err)
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return false, 0, fmt.Errorf("unexpected connection type")
	}
	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return false, 0, nil
	}
	leaf := certs[0]
	now := time.Now()
	valid := now.After(leaf.NotBefore) && now.Before(leaf.NotAfter)
	expiryDays := int(time.Until(leaf.NotAfter).Hours() / 24)
	if expiryDays < 0 {
		expiryDays = 0
	}
	return valid, expiryDays, nil
}

func (p *SecurityProbe) httpRedirectsToHTTPS(ctx context.Context, host string) bool {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+host+"/", nil)
	if err != nil {
		return false
	}
	request.Header.Set("User-Agent", pageUserAgent)
	response, err := p.client.Do(request)
	if err != nil {
		return false
	}
	defer response.Body.Close()
	if response.StatusCode < 300 || response.StatusCode >= 400 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(response.Header.Get("Location")), "https://")
}
