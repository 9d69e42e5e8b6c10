// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/google/uuid"
)

const (
	// VoterCookieName holds the long-lived per-browser identifier
	VoterCookieName = "poll_voter_token"

	// UnknownIP is hashed when no client address can be determined
	UnknownIP = "unknown"

	voterCookieMaxAge = 60 * 60 * 24 * 365
)

// Fingerprint holds the two independent identity signals of one request
type Fingerprint struct {
	VoterID   string // raw cookie value, only ever sent back in Set-Cookie
	VoterHash string
	IPHash    string
	Issued    bool // VoterID was generated for this request and must be set as a cookie
}

// Fingerprinter derives voter fingerprints from requests
type Fingerprinter struct {
	secret       []byte
	trustProxy   bool
	secureCookie bool
}

func NewFingerprinter(secret []byte, trustProxy, secureCookie bool) *Fingerprinter {
	return &Fingerprinter{
		secret:       secret,
		trustProxy:   trustProxy,
		secureCookie: secureCookie,
	}
}

// Derive reads (or creates) the voter identifier and hashes it together with
// the client IP
func (f *Fingerprinter) Derive(r *http.Request) Fingerprint {
	fp := Fingerprint{}

	if c, err := r.Cookie(VoterCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		fp.VoterID = c.Value
	} else {
		fp.VoterID = uuid.NewString()
		fp.Issued = true
	}

	fp.VoterHash = HashWithSecret(fp.VoterID, f.secret)
	fp.IPHash = HashWithSecret(f.ClientIP(r), f.secret)
	return fp
}

// SetCookie persists a freshly issued voter identifier. It is a no-op when
// the request already carried one.
func (f *Fingerprinter) SetCookie(w http.ResponseWriter, fp Fingerprint) {
	if !fp.Issued {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VoterCookieName,
		Value:    fp.VoterID,
		Path:     "/",
		MaxAge:   voterCookieMaxAge,
		HttpOnly: true,
		Secure:   f.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClientIP extracts the client IP address.
// Checks X-Forwarded-For, X-Real-IP (unless proxy headers are disabled),
// then RemoteAddr, then falls back to UnknownIP.
func (f *Fingerprinter) ClientIP(r *http.Request) string {
	if f.trustProxy {
		// Take first IP in chain
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if ip, ok := normalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return UnknownIP
}

// normalizeIP strips the port and zone from an address such as
// "192.0.2.4:1234" or "[2001:db8::1]:443"
func normalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return addrPort.Addr().WithZone("").String(), true
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.WithZone("").String(), true
	}
	return "", false
}
