package main

import (
	"context"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ims-client/internal/config"
	"ims-client/internal/router"
	"ims-client/pkg/response"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting IMS dev proxy...")

	cfg := config.MustLoad()

	target, err := url.Parse(cfg.Proxy.Target)
	if err != nil {
		log.Fatalf("Invalid proxy target %q: %v", cfg.Proxy.Target, err)
	}
	log.Printf("Forwarding to inventory backend at %s", target)

	r := router.New(router.Config{
		Proxy: newBackendProxy(target),
	})

	srv := &http.Server{
		Addr:         cfg.Proxy.Listen,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Dev proxy listening on %s", cfg.Proxy.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down dev proxy...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Dev proxy stopped")
}

// newBackendProxy builds the reverse proxy. Requests already under /api are
// forwarded as-is; bare resource paths (/items, /categories, /sales) get the
// backend's /api prefix prepended so both route patterns resolve.
func newBackendProxy(target *url.URL) http.Handler {
	basePath := target.Path
	if basePath == "" {
		basePath = "/api"
	}

	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			if req.URL.Path != "/api" && !strings.HasPrefix(req.URL.Path, "/api/") {
				req.URL.Path = strings.TrimSuffix(basePath, "/") + req.URL.Path
			}
			req.Host = target.Host
		},
		ModifyResponse: func(resp *http.Response) error {
			log.Printf("Proxy response: %d for %s %s", resp.StatusCode, resp.Request.Method, resp.Request.URL.Path)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("Proxy error for %s %s: %v", r.Method, r.URL.Path, err)

			response.Error(w, r, http.StatusInternalServerError,
				"Inventory Backend Connection Error",
				"Could not connect to the inventory backend. Please check that it is running.",
				err.Error())
		},
		Transport: &http.Transport{
			ResponseHeaderTimeout: 15 * time.Second,
		},
	}

	return proxy
}
