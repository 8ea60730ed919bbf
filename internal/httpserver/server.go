// Package httpserver exposes the banner pipeline over HTTP.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"guildbanner/internal/banner"
)

// Generator renders one banner; satisfied by *banner.Service.
type Generator interface {
	Generate(ctx context.Context, req banner.Request) ([]byte, error)
}

func New(gen Generator, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/tools/guild", guildBannerHandler(gen, log))

	return r
}

func guildBannerHandler(gen Generator, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		world := strings.TrimSpace(q.Get("world"))
		guild := strings.TrimSpace(q.Get("guild"))
		if world == "" || guild == "" {
			writeError(w, http.StatusBadRequest, "world and guild query parameters are required")
			return
		}

		req := banner.NewRequest(world, guild)
		if v := q.Get("lang"); v != "" {
			req.Lang = v
		}
		if v := q.Get("theme"); v != "" {
			req.Theme = v
		}
		req.ShowBoss = boolParam(q.Get("showBoss"), true)
		req.ShowLogo = boolParam(q.Get("showLogo"), true)
		if n, err := strconv.Atoi(q.Get("width")); err == nil {
			req.Width = n
		}
		if n, err := strconv.Atoi(q.Get("height")); err == nil {
			req.Height = n
		}

		img, err := gen.Generate(r.Context(), req)
		if err != nil {
			log.Error("banner generation failed", "world", world, "guild", guild, "err", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "image/png")
		// Banners are rendered from live reads; do not let intermediaries
		// serve a stale guild state.
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img)
	}
}

func boolParam(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
