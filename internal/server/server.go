package server

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
	"github.com/Gatofitnees/Appmovil-sub001/internal/handler"
	"github.com/Gatofitnees/Appmovil-sub001/internal/middleware"
	"github.com/Gatofitnees/Appmovil-sub001/internal/service"
)

type Server struct {
	echo           *echo.Echo
	webhookAuth    echo.MiddlewareFunc
	webhookHandler *handler.WebhookHandler
	receiptHandler *handler.ReceiptHandler
}

func NewServer(
	cfg *config.Config,
	subscriptionService service.SubscriptionService,
	receiptService service.ReceiptService,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error))
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		webhookAuth:    middleware.WebhookAuth(cfg.RevenueCat.WebhookAuth, logger),
		webhookHandler: handler.NewWebhookHandler(subscriptionService, logger),
		receiptHandler: handler.NewReceiptHandler(receiptService, logger),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Paths match the function names the mobile app and RevenueCat already call.
	s.echo.POST("/revenuecat-webhook", s.webhookHandler.HandleRevenueCatWebhook, s.webhookAuth)
	s.echo.POST("/verify-appstore-receipt", s.receiptHandler.VerifyAppStoreReceipt)
	s.echo.POST("/verify-playstore-receipt", s.receiptHandler.VerifyPlayStoreReceipt)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
