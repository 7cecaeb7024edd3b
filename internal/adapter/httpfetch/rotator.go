package httpfetch

import (
	"math/rand"
	"net/http"
	"net/url"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Rotator hands out outbound proxies round-robin and user agents at random.
type Rotator struct {
	proxies    []*url.URL
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

// NewRotator builds a Rotator. An empty agent list falls back to a set of
// desktop browser agents; an empty proxy list means direct connections.
func NewRotator(proxies []*url.URL, userAgents []string) *Rotator {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &Rotator{proxies: proxies, userAgents: userAgents}
}

// Proxy satisfies http.Transport.Proxy.
func (r *Rotator) Proxy(*http.Request) (*url.URL, error) {
	if len(r.proxies) == 0 {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	proxy := r.proxies[r.proxyIndex]
	r.proxyIndex = (r.proxyIndex + 1) % len(r.proxies)
	return proxy, nil
}

// UserAgent returns a random user agent string.
func (r *Rotator) UserAgent() string {
	return r.userAgents[rand.Intn(len(r.userAgents))]
}
