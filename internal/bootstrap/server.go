package bootstrap

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpecho "github.com/mohammadpnp/rendimientos-admin/internal/interfaces/http/echo"
)

func NewHTTPServer(svc *Services, maxUpload int64, logger *logrus.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	// Multipart framing adds overhead on top of the file itself.
	bodyLimit := strconv.FormatInt(maxUpload+(1<<20), 10)

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(requestLogger(logger))
	server.Use(middleware.BodyLimit(bodyLimit))

	importHandler := httpecho.NewImportHandler(httpecho.ImportHandlerConfig{
		Importers: svc.Importers,
		GetRun:    svc.GetRun,
		ListRuns:  svc.ListRuns,
		MaxUpload: maxUpload,
		Logger:    logger.WithField("component", "http"),
	})
	contractHandler := httpecho.NewContractHandler(svc.ListContracts, svc.ContractTotals)
	userHandler := httpecho.NewUserHandler(svc.GetUserByID)

	httpecho.RegisterRoutes(server, importHandler, contractHandler, userHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return server
}

func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
