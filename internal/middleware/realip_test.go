package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
)

func serveRealIP(t *testing.T, trusted []netip.Prefix, remoteAddr, forwardedFor string) string {
	t.Helper()
	var got string
	h := NewTrustedRealIPMiddleware(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestTrustedRealIP_NoTrustedProxies_IgnoresHeaders(t *testing.T) {
	got := serveRealIP(t, nil, "192.0.2.1:1234", "203.0.113.9")
	if got != "192.0.2.1" {
		t.Errorf("ClientIP = %q, want %q", got, "192.0.2.1")
	}
}

func TestTrustedRealIP_TrustedPeer_UsesForwardedFor(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("127.0.0.1/32")}

	if got := serveRealIP(t, trusted, "10.20.30.40:443", "203.0.113.9"); got != "203.0.113.9" {
		t.Errorf("ClientIP = %q, want %q", got, "203.0.113.9")
	}
	if got := serveRealIP(t, trusted, "127.0.0.1:8080", "203.0.113.10"); got != "203.0.113.10" {
		t.Errorf("ClientIP = %q, want %q", got, "203.0.113.10")
	}
}

func TestTrustedRealIP_UntrustedPeer_IgnoresHeaders(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	if got := serveRealIP(t, trusted, "192.0.2.1:1234", "203.0.113.9"); got != "192.0.2.1" {
		t.Errorf("ClientIP = %q, want %q", got, "192.0.2.1")
	}
}

func TestIsTrustedPeer_MappedIPv4(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	if !isTrustedPeer("[::ffff:10.0.0.1]:80", trusted) {
		t.Error("IPv4射影アドレスが信頼済みとして扱われなかった")
	}
	if isTrustedPeer("not-an-ip", trusted) {
		t.Error("不正なアドレスが信頼済みとして扱われた")
	}
}
