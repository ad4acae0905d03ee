package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"Velra/internal/repository"
	xhttp "Velra/pkg/http"
	xlogger "Velra/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	indexFile = "index.html"

	missingSuggestion = "Wait for the worker to generate the initial snapshot."

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// reservedNames are never served as static assets.
var reservedNames = map[string]struct{}{
	"data.json": {},
	"health":    {},
}

// reservedPrefixes hold server-side files that may share the static root.
var reservedPrefixes = []string{"internal/", "config/"}

// SiteConfig holds the site handler settings.
type SiteConfig struct {
	StaticDir    string
	PollInterval time.Duration
	Location     *time.Location
}

// SiteHandler serves the front end, the snapshot document and the live feed.
type SiteHandler struct {
	logger   *xlogger.Logger
	reader   *repository.SnapshotReader
	cfg      SiteConfig
	upgrader websocket.Upgrader
	now      func() time.Time
}

func NewSiteHandler(logger *xlogger.Logger, reader *repository.SnapshotReader, cfg SiteConfig) *SiteHandler {
	if cfg.StaticDir == "" {
		cfg.StaticDir = "."
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SiteHandler{
		logger: logger,
		reader: reader,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

func (h *SiteHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/health", h.Health)
	e.GET("/data.json", h.Data)
	e.GET("/ws", h.Live)
	e.GET("/*", h.Static)
}

// Index serves the front-end entry document.
func (h *SiteHandler) Index(c echo.Context) error {
	return h.serveFile(c, indexFile)
}

// Health reports liveness with the server's local time.
func (h *SiteHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":        true,
		"timestamp": h.now().In(h.cfg.Location).Format(time.RFC3339),
	})
}

// Data serves the persisted snapshot with caching disabled.
func (h *SiteHandler) Data(c echo.Context) error {
	f, err := h.reader.Read(c.Request().Context())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return xhttp.ErrorResponse(c, h.missingSnapshot())
		}
		h.logger.Error("snapshot read failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	xhttp.NoCache(c)
	c.Response().Header().Set(echo.HeaderLastModified, f.ModTime.UTC().Format(http.TimeFormat))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, f.Body)
}

func (h *SiteHandler) missingSnapshot() *xhttp.AppError {
	checked := h.reader.Path()
	if abs, err := filepath.Abs(checked); err == nil {
		checked = abs
	}
	return xhttp.NotFoundError("Data file not found on server").
		WithDetail("missing_file", true).
		WithDetail("path_checked", checked).
		WithDetail("suggestion", missingSuggestion)
}

// Static serves an asset by exact relative path.
func (h *SiteHandler) Static(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("*"))
	if err != nil || !servable(name) {
		return xhttp.NotFoundResponse(c)
	}
	return h.serveFile(c, name)
}

// servable rejects reserved names, dotfiles such as .env and anything that
// is not already a clean relative path (no "..", "." or empty segments).
func servable(name string) bool {
	if name == "" || strings.ContainsRune(name, '\\') || strings.ContainsRune(name, 0) {
		return false
	}
	if path.Clean("/"+name) != "/"+name {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	if _, ok := reservedNames[name]; ok {
		return false
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return !strings.HasSuffix(name, repository.TempSuffix)
}

func (h *SiteHandler) serveFile(c echo.Context, name string) error {
	full := filepath.Join(h.cfg.StaticDir, filepath.FromSlash(name))
	fi, err := os.Stat(full)
	if err != nil || !fi.Mode().IsRegular() {
		return xhttp.NotFoundResponse(c)
	}
	return c.File(full)
}

// Live pushes the snapshot over a websocket on connect and whenever the
// file is replaced.
func (h *SiteHandler) Live(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// The read loop only services control frames and notices the close.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var last time.Time
	push := func() error {
		f, err := h.reader.Read(ctx)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if f.ModTime.Equal(last) {
			return nil
		}
		last = f.ModTime
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, f.Body)
	}

	if err := push(); err != nil {
		h.logger.Debug("websocket push failed", xlogger.Error(err))
		return nil
	}

	poll := time.NewTicker(h.cfg.PollInterval)
	defer poll.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.C:
			if err := push(); err != nil {
				h.logger.Debug("websocket push failed", xlogger.Error(err))
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}
