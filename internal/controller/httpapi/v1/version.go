package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/school-management-toolkit/registrar/config"
)

// VersionRoute -.
type VersionRoute struct {
	cfg *config.Config
}

// NewVersionRoute -.
func NewVersionRoute(cfg *config.Config) *VersionRoute {
	return &VersionRoute{cfg: cfg}
}

// VersionHandler reports the running build.
func (vr *VersionRoute) VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    vr.cfg.App.Name,
		"repo":    vr.cfg.App.Repo,
		"version": vr.cfg.App.Version,
	})
}
