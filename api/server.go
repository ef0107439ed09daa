package api

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/logmodule"
	"github.com/bitmark-inc/recurrence-api/score"
	"github.com/bitmark-inc/recurrence-api/store"
	"github.com/bitmark-inc/recurrence-api/utils"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	mongoStore store.MongoStore
	watermarks store.WatermarkStore

	// job pool enqueuer, nil when no broker is configured
	background utils.TaskSender

	policy   score.Policy
	resetTTL time.Duration

	metrics tally.Scope

	now func() time.Time
}

// NewServer new instance of server
func NewServer(
	mongoStore store.MongoStore,
	watermarks store.WatermarkStore,
	background utils.TaskSender,
	policy score.Policy,
	resetTTL time.Duration,
	metrics tally.Scope) *Server {
	if metrics == nil {
		metrics = tally.NoopScope
	}
	if resetTTL < 0 {
		resetTTL = consts.DefaultResetTTL
	}

	return &Server{
		mongoStore: mongoStore,
		watermarks: watermarks,
		background: background,
		policy:     policy,
		resetTTL:   resetTTL,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func corsConfig() cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept-Language"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if origins := viper.GetStringSlice("cors.origins"); len(origins) > 0 {
		config.AllowOrigins = origins
	} else {
		config.AllowAllOrigins = true
	}
	return config
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(cors.New(corsConfig()))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)

	apiRoute.POST("/predict", s.predict)

	resetRoute := apiRoute.Group("/reset-threshold")
	{
		resetRoute.POST("", s.resetThreshold)
		resetRoute.GET("", s.getThresholdReset)
	}

	symptomRoute := apiRoute.Group("/symptoms")
	{
		symptomRoute.POST("", s.reportSymptom)
		symptomRoute.GET("", s.listSymptoms)
	}

	apiRoute.GET("/alerts", s.listThresholdAlerts)

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.mongoStore.Ping()
	if shouldInterupt(err, c) {
		return
	}

	if p, ok := s.watermarks.(store.Pinger); ok {
		if shouldInterupt(p.Ping(), c) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"thresholds":          s.policy.Thresholds.Limits(),
			"default_threshold":   s.policy.Thresholds.DefaultLimit(),
			"approaching_warning": s.policy.ApproachingWarning,
			"reset_ttl_days":      int(s.resetTTL / consts.Day),
			"system_version":      "Recurrence 0.1",
		},
	})
}

// reportDegraded logs and captures a collaborator failure which did not stop the request
func (s *Server) reportDegraded(c *gin.Context, collaborator string, err error) {
	log.WithField("collaborator", collaborator).WithError(err).Warn("collaborator unavailable")
	s.metrics.Tagged(map[string]string{"collaborator": collaborator}).Counter("degraded").Inc(1)

	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
