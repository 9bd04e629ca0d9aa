package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SwaggerGuard hides the API docs when disabled and restricts them to the
// configured addresses or CIDR ranges. Unparseable entries are logged and skipped.
func SwaggerGuard(cfg config.SwaggerConfig, log *zap.Logger) gin.HandlerFunc {
	allowed := parseAllowList(cfg.AllowedIPs, log)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "API documentation is not available",
				},
			})
			return
		}

		if len(allowed) > 0 && !ipAllowed(c.ClientIP(), allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Access to API documentation is restricted",
				},
			})
			return
		}

		c.Next()
	}
}

func parseAllowList(entries []string, log *zap.Logger) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err == nil {
				prefixes = append(prefixes, p.Masked())
				continue
			}
		} else if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		if log != nil {
			log.Warn("Ignoring invalid swagger allow-list entry", zap.String("entry", entry))
		}
	}
	return prefixes
}

func ipAllowed(ip string, allowed []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range allowed {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
