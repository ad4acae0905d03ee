package middleware

import (
	"net"
	"strings"
	"time"

	applogger "Velra/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging writes one access log line per request.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Info("http request",
				applogger.String("request_id", requestID(c)),
				applogger.String("ip", ClientIP(c)),
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.Int("status", res.Status),
				applogger.Duration("latency", time.Since(start)),
				applogger.String("user_agent", req.UserAgent()),
			)
			return nil
		}
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then the socket address.
func ClientIP(c echo.Context) string {
	req := c.Request()
	if xff := req.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
