package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// RoundTripper sends requests over connections whose TLS ClientHello mimics
// a browser. Plain http requests go through a regular transport.
type RoundTripper struct {
	profile Profile
	hello   utls.ClientHelloID
	dialer  *net.Dialer
	rootCAs *x509.CertPool
	plain   *http.Transport
	h2      *http2.Transport
}

// Option configures a RoundTripper
type Option func(*RoundTripper)

// WithRootCAs sets the pool used to verify server certificates
func WithRootCAs(pool *x509.CertPool) Option {
	return func(rt *RoundTripper) {
		rt.rootCAs = pool
		rt.plain.TLSClientConfig.RootCAs = pool
	}
}

// WithDialTimeout bounds the TCP connect
func WithDialTimeout(d time.Duration) Option {
	return func(rt *RoundTripper) {
		rt.dialer.Timeout = d
	}
}

// New builds the transport for a profile. With profile None every request
// goes through a clone of http.DefaultTransport.
func New(profile Profile, opts ...Option) *RoundTripper {
	plain := http.DefaultTransport.(*http.Transport).Clone()
	if plain.TLSClientConfig == nil {
		plain.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rt := &RoundTripper{
		profile: profile,
		dialer:  &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second},
		plain:   plain,
		h2:      &http2.Transport{},
	}
	if fp, ok := fingerprints[profile]; ok {
		rt.hello = fp.hello
	}

	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if ua := rt.profile.UserAgent(); ua != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", ua)
	}

	if req.URL.Scheme != "https" || rt.profile == None {
		return rt.plain.RoundTrip(req)
	}

	conn, err := rt.dialTLS(req.Context(), req.URL.Hostname(), req.URL.Port())
	if err != nil {
		return nil, err
	}

	if conn.ConnectionState().NegotiatedProtocol == http2.NextProtoTLS {
		return rt.roundTripH2(req, conn)
	}
	return rt.roundTripH1(req, conn)
}

func (rt *RoundTripper) dialTLS(ctx context.Context, host, port string) (*utls.UConn, error) {
	if port == "" {
		port = "443"
	}

	raw, err := rt.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}

	conn := utls.UClient(raw, &utls.Config{ServerName: host, RootCAs: rt.rootCAs}, rt.hello)
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}
	return conn, nil
}

func (rt *RoundTripper) roundTripH2(req *http.Request, conn net.Conn) (*http.Response, error) {
	cc, err := rt.h2.NewClientConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	resp, err := cc.RoundTrip(req)
	if err != nil {
		cc.Close()
		return nil, err
	}
	resp.Body = &closingBody{ReadCloser: resp.Body, conn: cc}
	return resp, nil
}

var errConnUsed = errors.New("transport: impersonated connection already used")

// roundTripH1 runs one HTTP/1.1 exchange over the established connection
func (rt *RoundTripper) roundTripH1(req *http.Request, conn net.Conn) (*http.Response, error) {
	var once sync.Once
	t := &http.Transport{
		DisableKeepAlives: true,
		DialTLSContext: func(context.Context, string, string) (net.Conn, error) {
			var c net.Conn
			once.Do(func() { c = conn })
			if c == nil {
				return nil, errConnUsed
			}
			return c, nil
		},
	}

	resp, err := t.RoundTrip(req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return resp, nil
}

// closingBody tears the HTTP/2 connection down with the response body
type closingBody struct {
	io.ReadCloser
	conn io.Closer
}

func (b *closingBody) Close() error {
	err := b.ReadCloser.Close()
	b.conn.Close()
	return err
}
