package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IPAllowlist returns middleware that restricts access to the given
// IPs/CIDRs. An empty list allows everything: the allowlist is an optional
// hardening layer on top of token auth.
func IPAllowlist(allowed []string) gin.HandlerFunc {
	// Parse entries once at initialization
	var networks []*net.IPNet
	var ips []net.IP

	for _, entry := range allowed {
		if _, network, err := net.ParseCIDR(entry); err == nil {
			networks = append(networks, network)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if len(networks) == 0 && len(ips) == 0 {
			c.Next()
			return
		}

		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		for _, ip := range ips {
			if ip.Equal(clientIP) {
				c.Next()
				return
			}
		}
		for _, network := range networks {
			if network.Contains(clientIP) {
				c.Next()
				return
			}
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}
