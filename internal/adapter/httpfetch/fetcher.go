package httpfetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 10 << 20
)

// Options configures a Fetcher. Zero values take defaults.
type Options struct {
	Timeout time.Duration
	Rotator *Rotator
	Logger  *zap.Logger
}

// Fetcher performs single GET requests against user-registered sites.
//
// Certificate verification is disabled on purpose: sites with self-signed or
// misconfigured certificates must still be checkable. Never reuse this client
// for requests that carry credentials.
type Fetcher struct {
	client  *http.Client
	rotator *Rotator
	logger  *zap.Logger
}

// New creates a new Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Rotator == nil {
		opts.Rotator = NewRotator(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy: opts.Rotator.Proxy,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		rotator: opts.Rotator,
		logger:  opts.Logger,
	}
}

// Fetch issues one GET against target. Any returned error is network-level
// (DNS, refused connection, timeout, TLS handshake); 4xx and 5xx responses are
// returned as regular snapshots.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*entity.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.rotator.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("fetch failed", zap.String("url", target), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	snapshot := Extract(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"), f.logger)
	snapshot.StatusCode = resp.StatusCode

	f.logger.Info("page fetched",
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return &snapshot, nil
}
