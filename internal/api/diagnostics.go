package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"character-chat-demo/backend/pkg/config"
)

// DiagStore is the slice of the storage client the diagnostic endpoints use
type DiagStore interface {
	Bucket() string
	Region() string
	CheckBucket(ctx context.Context) error
	RoundTrip(ctx context.Context) error
}

// DiagnosticsController exposes storage introspection endpoints for
// operational debugging. Not part of the product's functional contract.
type DiagnosticsController struct {
	cfg   *config.Config
	store DiagStore
}

// NewDiagnosticsController creates a diagnostics controller. store is nil
// when object storage is unconfigured.
func NewDiagnosticsController(cfg *config.Config, store DiagStore) *DiagnosticsController {
	return &DiagnosticsController{cfg: cfg, store: store}
}

// CheckConfig handles GET /check_s3_config: echoes the storage configuration
// with secrets redacted to booleans.
func (ct *DiagnosticsController) CheckConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured":      ct.cfg.StorageConfigured(),
		"bucket":          ct.cfg.Storage.Bucket,
		"region":          ct.cfg.Storage.Region,
		"endpoint":        ct.cfg.Storage.Endpoint,
		"has_credentials": ct.cfg.Storage.AccessKeyID != "" && ct.cfg.Storage.SecretAccessKey != "",
	})
}

// CheckConnectivity handles GET /check_s3: verifies the bucket is reachable
func (ct *DiagnosticsController) CheckConnectivity(c *gin.Context) {
	if ct.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "unconfigured"})
		return
	}

	if err := ct.store.CheckBucket(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"bucket": ct.store.Bucket(),
		"region": ct.store.Region(),
	})
}

// TestStorage handles GET /test_s3: writes, reads back, and deletes a probe
// object to prove end-to-end access.
func (ct *DiagnosticsController) TestStorage(c *gin.Context) {
	if ct.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "unconfigured"})
		return
	}

	if err := ct.store.RoundTrip(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
