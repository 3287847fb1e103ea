// Package relay fetches remote HLS resources on behalf of browser players,
// follows upstream redirects, rewrites playlist documents through the
// rewriter, and streams everything else through unbuffered.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/metrics"
	"github.com/ayoubalgboom-bot/brglive-website/rewriter"
)

var (
	// ErrInvalidTarget indicates a missing, unparsable, or non-absolute target URL.
	ErrInvalidTarget = errors.New("invalid target URL")
	// ErrRedirectLoop indicates the upstream kept redirecting past the hop limit.
	ErrRedirectLoop = errors.New("redirect hop limit exceeded")
	// ErrUpstream indicates the outbound fetch failed before any byte reached the caller.
	ErrUpstream = errors.New("upstream fetch failed")
)

// Outbound request headers. Upstream origins hotlink-protect their streams,
// so the relay always presents this fixed browser identity instead of
// forwarding whatever the caller sent.
const (
	outboundReferer   = "https://x.com/"
	outboundUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"
)

// playlistContentType is the fallback media type when the upstream does not
// report one.
const playlistContentType = "application/vnd.apple.mpegurl"

// Config holds the relay's operating bounds.
type Config struct {
	// MaxRedirects bounds how many redirect hops are followed per request.
	MaxRedirects int
	// PlaylistLimit bounds how many bytes of a playlist body are buffered.
	PlaylistLimit int64
	// HeaderTimeout bounds how long the upstream may take to start responding.
	HeaderTimeout time.Duration
}

// DefaultConfig returns the relay bounds used in production.
func DefaultConfig() Config {
	return Config{
		MaxRedirects:  5,
		PlaylistLimit: 4 * 1024 * 1024,
		HeaderTimeout: 30 * time.Second,
	}
}

// Relay proxies upstream HLS resources. One Relay is shared by all
// requests; each request holds exactly one outbound connection for the
// lifetime of its response.
type Relay struct {
	client *http.Client
	cfg    Config
	logger *logging.Logger
}

// New creates a Relay. Redirects are disabled on the client so the hop
// loop in fetch stays explicit and testable.
func New(cfg Config, logger *logging.Logger) *Relay {
	return &Relay{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: cfg.HeaderTimeout,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cfg:    cfg,
		logger: logger,
	}
}

// setOutboundHeaders applies the fixed header set to an upstream request.
func setOutboundHeaders(req *http.Request) {
	req.Header.Set("Referer", outboundReferer)
	req.Header.Set("User-Agent", outboundUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
}

// isRedirect reports whether the status code carries a followable redirect.
func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// isPlaylistPath reports whether a URL's path names an HLS playlist.
func isPlaylistPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, ".m3u8")
}

// fetch GETs target with the fixed header set, following up to MaxRedirects
// redirect hops. It returns the final response and the URL that produced
// it; that URL anchors relative-reference resolution for playlists.
func (r *Relay) fetch(ctx context.Context, target string) (*http.Response, string, error) {
	current := target
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
		}
		setOutboundHeaders(req)

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}

		if !isRedirect(resp.StatusCode) || resp.Header.Get("Location") == "" {
			return resp, current, nil
		}

		loc, err := resp.Location()
		closeBody(resp, r.logger)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad Location header: %v", ErrUpstream, err)
		}

		if hop >= r.cfg.MaxRedirects {
			return nil, "", fmt.Errorf("%w (%d hops)", ErrRedirectLoop, hop)
		}

		r.logger.LogRedirectFollowed(current, loc.String(), hop+1)
		metrics.RecordRedirect()
		current = loc.String()
	}
}

// ServeStream relays target to w. Playlist responses are buffered, rewritten
// against proxyBase, and returned whole; anything else is streamed through
// chunk by chunk. Errors are only returned while the response is still
// unwritten; once streaming starts, a failure terminates the connection and
// is logged here.
func (r *Relay) ServeStream(ctx context.Context, w http.ResponseWriter, target, proxyBase string) error {
	parsed, err := url.Parse(target)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		metrics.RecordProxyRequest(metrics.OutcomeError)
		return fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	resp, finalURL, err := r.fetch(ctx, target)
	if err != nil {
		metrics.RecordProxyRequest(metrics.OutcomeError)
		r.logger.LogUpstreamError(target, err)
		return err
	}
	defer closeBody(resp, r.logger)

	// Browser players embed relayed URLs cross-origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = playlistContentType
	}
	w.Header().Set("Content-Type", contentType)

	// The request URL and the post-redirect URL both count: origins often
	// redirect master.m3u8 to a tokenized CDN URL without the suffix.
	if resp.StatusCode == http.StatusOK && (isPlaylistPath(target) || isPlaylistPath(finalURL)) {
		return r.servePlaylist(w, resp, finalURL, proxyBase)
	}

	w.WriteHeader(resp.StatusCode)
	written, copyErr := r.copyStream(w, resp.Body)
	metrics.RecordBytesStreamed(written)
	metrics.RecordProxyRequest(metrics.OutcomeStream)
	if copyErr != nil {
		// Headers are long gone; nothing to do but drop the connection.
		r.logger.LogStreamAborted(target, written, copyErr)
	}
	return nil
}

// servePlaylist buffers the playlist body, rewrites every reference through
// proxyBase, and writes the result. Playlists are small text documents, so
// buffering is bounded by PlaylistLimit.
func (r *Relay) servePlaylist(w http.ResponseWriter, resp *http.Response, finalURL, proxyBase string) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.PlaylistLimit))
	if err != nil {
		metrics.RecordProxyRequest(metrics.OutcomeError)
		return fmt.Errorf("%w: reading playlist: %v", ErrUpstream, err)
	}

	rewritten := rewriter.Rewrite(string(body), finalURL, proxyBase)
	metrics.RecordPlaylistRewritten()
	metrics.RecordProxyRequest(metrics.OutcomePlaylist)
	r.logger.LogPlaylistRewrite(finalURL, len(rewritten))

	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, rewritten); err != nil {
		r.logger.LogStreamAborted(finalURL, 0, err)
	}
	return nil
}

// copyStream pipes the upstream body to the client chunk by chunk, flushing
// after every write so live feeds reach the player without delay. Segments
// and continuous feeds can be unbounded, so nothing is accumulated.
func (r *Relay) copyStream(w http.ResponseWriter, body io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)

	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			wn, writeErr := w.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}

// closeBody closes the upstream body, logging failures.
func closeBody(resp *http.Response, logger *logging.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Debug("failed to close upstream body", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
