package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/middleware"
	"github.com/ridloal/factory-inventory/internal/platform/server"
)

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("target URL '%s' needs a scheme and host", targetHost)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	// CORS is answered at the edge; upstream copies would duplicate it.
	proxy.ModifyResponse = func(resp *http.Response) error {
		for h := range resp.Header {
			if strings.HasPrefix(h, "Access-Control-") {
				resp.Header.Del(h)
			}
		}
		return nil
	}

	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error("Gateway: proxy error", err, "method", req.Method, "path", req.URL.Path, "target", targetURL.String())
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusBadGateway)
		_, _ = rw.Write([]byte(`{"error":"service unavailable","kind":"internal"}`))
	}
	return proxy, nil
}

// serviceMappings routes each path prefix to its service. Both the bare
// prefix and its subtree are registered so POST /api/v1/quotations is not
// redirected by the mux.
func serviceMappings(cfg config.GatewayConfig) map[string]string {
	return map[string]string{
		"/api/v1/products":        cfg.CatalogServiceURL,
		"/api/v1/suppliers":       cfg.SupplierServiceURL,
		"/api/v1/purchase-orders": cfg.OrderServiceURL,
		"/api/v1/sales-orders":    cfg.OrderServiceURL,
		"/api/v1/quotations":      cfg.QuotationServiceURL,
		"/api/v1/dashboard":       cfg.DashboardServiceURL,
	}
}

func newGateway(cfg config.GatewayConfig, corsCfg config.CORSConfig, rateCfg config.RateLimitConfig) (http.Handler, error) {
	mux := http.NewServeMux()
	for prefix, target := range serviceMappings(cfg) {
		proxy, err := newSingleHostReverseProxy(target)
		if err != nil {
			return nil, fmt.Errorf("proxy for %s: %w", prefix, err)
		}
		mux.Handle(prefix, proxy)
		mux.Handle(prefix+"/", proxy)
		logger.Info("Routing", "prefix", prefix, "target", target)
	}

	router := middleware.NewRouter(corsCfg)
	router.Use(middleware.RateLimit(rateCfg))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(gin.WrapH(mux))
	return router, nil
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logger.Error("Failed to read .env file", err)
	}
	if err := logger.Initialize(config.AppEnv()); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.LoadGatewayConfig()
	logger.Info("Starting API Gateway", "port", cfg.ListenPort)

	handler, err := newGateway(cfg, config.LoadCORSConfig(), config.LoadRateLimitConfig())
	if err != nil {
		logger.Error("Failed to configure API Gateway", err)
		os.Exit(1)
	}

	if err := server.Run("API Gateway", ":"+cfg.ListenPort, handler); err != nil {
		logger.Error("API Gateway failed to start or crashed", err)
	}
}
