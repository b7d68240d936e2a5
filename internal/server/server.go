package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
)

// Ops は運用系エンドポイントの設定
type Ops struct {
	Metrics  http.Handler
	MediaDir string
	MediaURL string
	Ping     func(ctx context.Context) error
}

// New は共通ミドルウェアとルートを載せた echo を返す
func New(cfg config.Config, lg *zap.Logger, h Handlers, mw handler.Middlewares, ops Ops) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(lg, cfg.IsDevelopment())

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(lg))

	origins := []string{"*"}
	if cfg.FEURL != "" {
		origins = []string{cfg.FEURL}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     origins,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: cfg.FEURL != "",
	}))
	// 画像アップロード分を見込む
	e.Use(echomw.BodyLimit("20M"))

	if ops.MediaURL == "" {
		ops.MediaURL = cfg.Media.BaseURL
	}
	RegisterRoutes(e, h, mw, ops)
	return e
}

// Run は ctx が終わるまで待ち受け、終わったら新規受付を止めて処理中のリクエストを待つ
func Run(ctx context.Context, lg *zap.Logger, addr string, e *echo.Echo, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(e, "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
	}()

	lg.Info("Server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
