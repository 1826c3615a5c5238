package setup

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"complaint-portal/api-gateway/internal/config"
	"complaint-portal/api-gateway/internal/proxy"
)

type route struct {
	path        string
	target      string
	stripPrefix string
	addPrefix   string
}

func routes(cfg *config.Config) []route {
	return []route{
		{"/api/auth", cfg.AuthServiceURL, "/api/auth", "/auth"},
		{"/api/users", cfg.AuthServiceURL, "/api/users", "/users"},
		{"/api/complaints", cfg.ComplaintServiceURL, "/api/complaints", "/complaints"},
		{"/api/dashboard", cfg.ComplaintServiceURL, "/api/dashboard", "/dashboard"},
		{"/uploads", cfg.ComplaintServiceURL, "/uploads", "/uploads"},
		{"/api/categories", cfg.ReferenceServiceURL, "/api/categories", "/api/categories"},
		{"/api/locations", cfg.ReferenceServiceURL, "/api/locations", "/api/locations"},
	}
}

// ConfigureServiceProxies mounts every upstream on router. Authentication is
// left to the services themselves.
func ConfigureServiceProxies(router gin.IRoutes, cfg *config.Config, log *logrus.Entry) error {
	for _, service := range routes(cfg) {
		handler, err := proxy.CreateProxy(service.target, service.stripPrefix, service.addPrefix, log)
		if err != nil {
			return err
		}

		router.Any(service.path, handler)
		router.Any(service.path+"/*proxyPath", handler)
	}
	return nil
}
