package clientip

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the host part of RemoteAddr. Proxy headers are
// ignored; use a Resolver with trusted proxies when the app sits behind one.
// Returns "" when RemoteAddr does not parse.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	if net.ParseIP(host) == nil {
		return ""
	}
	return host
}

// Resolver reads X-Forwarded-For only when the direct peer is a trusted
// proxy. A nil Resolver behaves like RealClientIP.
type Resolver struct {
	trusted []*net.IPNet
}

// NewResolver accepts CIDRs or bare IPs.
func NewResolver(proxies []string) (*Resolver, error) {
	res := &Resolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			p = fmt.Sprintf("%s/%d", ip.String(), bits)
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, network)
	}
	return res, nil
}

func (res *Resolver) isTrusted(ip net.IP) bool {
	for _, n := range res.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP walks X-Forwarded-For from the nearest hop and returns the first
// address that is not a trusted proxy.
func (res *Resolver) ClientIP(r *http.Request) string {
	peer := RealClientIP(r)
	if res == nil || len(res.trusted) == 0 || peer == "" || !res.isTrusted(net.ParseIP(peer)) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			// A garbled hop means everything left of it is unverifiable.
			return peer
		}
		if !res.isTrusted(ip) {
			return ip.String()
		}
	}
	return peer
}
