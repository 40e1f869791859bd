package utils

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// lanNetworks are the address ranges a browser origin may come from. The
// service is built to run on a home LAN, so RFC1918, loopback, link-local,
// and unique-local IPv6 ranges are trusted.
var lanNetworks = func() []*net.IPNet {
	cidrs := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		nets = append(nets, network)
	}
	return nets
}()

// allowedOrigin reports whether a browser origin may call the API. Besides
// LAN IPs it accepts localhost, .local mDNS names, and bare single-label
// hostnames; public internet origins are refused.
func allowedOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := parsed.Hostname()
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	if !strings.Contains(host, ".") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range lanNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// CORS middleware to allow cross-origin requests from local/private origins
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter constructs the base mux router with CORS and the health route.
func NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}
