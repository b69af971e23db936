package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Route mapeia um prefixo público para o serviço de destino
type Route struct {
	Prefix string // ex.: "/api/scout"
	Target string // ex.: "http://localhost:8080"
}

func rp(to string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(to)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", to)
	}
	return httputil.NewSingleHostReverseProxy(u), nil
}

// New monta o roteador do gateway. O prefixo é removido antes de repassar,
// então /api/scout/v1/leagues chega no scout-service como /v1/leagues.
func New(routes []Route, log *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	for _, rt := range routes {
		proxy, err := rp(rt.Target)
		if err != nil {
			return nil, err
		}
		target := rt.Target
		proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			log.Warn("upstream unavailable", zap.String("target", target), zap.String("path", req.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
		}
		r.Handle(rt.Prefix+"/*", http.StripPrefix(rt.Prefix, proxy))
	}
	return withCORS(r), nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
