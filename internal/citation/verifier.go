package citation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/util"
)

const probeMaxRetries = 2

// probeSleepFunc is the sleep function used between retries (injectable for tests)
var probeSleepFunc = time.Sleep

// Verifier is the external citation-verification capability. The core only
// consumes the boolean outcome; everything behind it is collaborator
// territory.
type Verifier interface {
	// VerifyCitation reports whether the citation was confirmed against a
	// source outside the provider set
	VerifyCitation(ctx context.Context, citation string) bool
}

// status is the internal tri-state of a probe. The exported interface stays
// boolean; the tri-state exists so "dead" and "not checkable" are not
// conflated when marking unresolvable citations.
type status int

const (
	statusUnknown status = iota // Not a URL, robots-disallowed, or probe inconclusive
	statusOK                    // Confirmed reachable
	statusDead                  // 404/410 or persistent failure
)

// Report summarizes a batch citation check for one evidence set
type Report struct {
	// IndependentValidation is true if at least one citation was confirmed
	IndependentValidation bool

	// Unresolvable marks providers whose URL citations all probed dead
	Unresolvable map[string]bool
}

// HTTPVerifier confirms citations by probing them over HTTP. HEAD requests
// with retry, per-domain rate limiting, robots.txt compliance, and a TTL
// cache so repeated verifications do not re-probe the same source.
type HTTPVerifier struct {
	httpClient *http.Client
	robots     *RobotsChecker
	limiter    *DomainLimiter
	cache      *gocache.Cache
	userAgent  string
	maxWorkers int
	cacheTTL   time.Duration
}

// NewHTTPVerifier creates a verifier from configuration
func NewHTTPVerifier(cfg model.CitationConfig) *HTTPVerifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	return &HTTPVerifier{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:     NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:    NewDomainLimiter(cfg.RequestsPerSecond, cfg.Burst),
		cache:      gocache.New(cfg.CacheTTL, 10*time.Minute),
		userAgent:  cfg.UserAgent,
		maxWorkers: workers,
		cacheTTL:   cfg.CacheTTL,
	}
}

// VerifyCitation reports whether one citation is confirmed reachable
func (v *HTTPVerifier) VerifyCitation(ctx context.Context, citation string) bool {
	return v.check(ctx, citation) == statusOK
}

// VerifyPoints probes every distinct URL citation across the evidence set
// concurrently and summarizes the outcome. Non-URL citations (document IDs)
// are not checkable and count as unknown, never as dead.
func (v *HTTPVerifier) VerifyPoints(ctx context.Context, points []model.EvidencePoint) Report {
	distinct := make(map[string]bool)
	for _, p := range points {
		for _, c := range p.Citations {
			if isHTTPURL(c) {
				distinct[c] = true
			}
		}
	}

	results := make(map[string]status, len(distinct))
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for c := range distinct {
		wg.Add(1)
		go func(citation string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			st := v.check(ctx, citation)
			mu.Lock()
			results[citation] = st
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	report := Report{Unresolvable: make(map[string]bool)}
	for _, st := range results {
		if st == statusOK {
			report.IndependentValidation = true
			break
		}
	}

	for _, p := range points {
		probed, dead := 0, 0
		for _, c := range p.Citations {
			st, ok := results[c]
			if !ok {
				continue
			}
			probed++
			if st == statusDead {
				dead++
			}
		}
		if probed > 0 && probed == dead {
			report.Unresolvable[p.ProviderID] = true
		}
	}

	return report
}

// check resolves one citation through cache, robots, and probe
func (v *HTTPVerifier) check(ctx context.Context, citation string) status {
	if !isHTTPURL(citation) {
		return statusUnknown
	}

	if cached, found := v.cache.Get(citation); found {
		return cached.(status)
	}

	if !v.robots.IsAllowed(ctx, citation) {
		// Respect the disallow; the source may exist but we cannot confirm it
		v.cache.Set(citation, statusUnknown, v.cacheTTL)
		return statusUnknown
	}

	st := v.probeWithRetry(ctx, citation)
	v.cache.Set(citation, st, v.cacheTTL)
	return st
}

// probeWithRetry issues HEAD requests with linear backoff. Transient
// failures retry; 4xx/5xx verdicts do not.
func (v *HTTPVerifier) probeWithRetry(ctx context.Context, rawURL string) status {
	var st status
	for attempt := 0; attempt < probeMaxRetries; attempt++ {
		if attempt > 0 {
			probeSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
		}
		if ctx.Err() != nil {
			return statusUnknown
		}

		var retryable bool
		st, retryable = v.probe(ctx, rawURL)
		if !retryable {
			return st
		}
	}
	return st
}

// probe performs one HEAD request; returns the status and whether the
// failure is worth retrying
func (v *HTTPVerifier) probe(ctx context.Context, rawURL string) (status, bool) {
	if err := v.limiter.Wait(ctx, rawURL); err != nil {
		return statusUnknown, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return statusDead, false
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return statusUnknown, false
		}
		return statusUnknown, true // Network hiccup, retry
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return statusOK, false
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return statusDead, false
	case resp.StatusCode == http.StatusMethodNotAllowed:
		// Some servers reject HEAD; a reachable server is confirmation enough
		return statusOK, false
	case resp.StatusCode >= 500:
		return statusUnknown, true
	default:
		return statusUnknown, false
	}
}

func isHTTPURL(citation string) bool {
	if !strings.HasPrefix(citation, "http://") && !strings.HasPrefix(citation, "https://") {
		return false
	}
	parsed, err := url.Parse(citation)
	return err == nil && parsed.Host != ""
}
