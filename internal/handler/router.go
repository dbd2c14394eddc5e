package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/madr/internal/metrics"
	"github.com/hitoshi/madr/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	IdentityResolver  middleware.IdentityResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         *metrics.Collector

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// サービス層
	AuthService   AuthServiceInterface
	UserService   UserServiceInterface
	AuthorService AuthorServiceInterface
	BookService   BookServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 読み取り系（GET）と認証エンドポイントは公開し、書き込み系は
// AuthMiddleware → RateLimit(General) のチェーンで保護する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	authorHandler := NewAuthorHandler(deps.AuthorService)
	bookHandler := NewBookHandler(deps.BookService)

	authMiddleware := middleware.NewAuthMiddleware(deps.IdentityResolver)

	// --- 認証不要のルート ---

	// 運用エンドポイント
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証
	r.Route("/auth", func(r chi.Router) {
		// POST /auth/token - ログイン（クレデンシャルスタッフィング対策のIP単位レート制限）
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/token", authHandler.Login)
		r.Post("/refresh_token", authHandler.Refresh)
	})

	// アカウント作成は未認証で行う
	r.Post("/users/conta", userHandler.Register)

	// カタログの読み取りは公開
	r.Get("/romancista", authorHandler.List)
	r.Get("/romancista/{id}", authorHandler.Get)
	r.Get("/livro", bookHandler.List)
	r.Get("/livro/{id}", bookHandler.Get)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// アカウント管理
		r.Put("/users/conta/{id}", userHandler.Update)
		r.Delete("/users/conta/{id}", userHandler.Delete)

		// 小説家管理
		r.Post("/romancista", authorHandler.Create)
		r.Patch("/romancista/{id}", authorHandler.Update)
		r.Delete("/romancista/{id}", authorHandler.Delete)

		// 蔵書管理
		r.Post("/livro", bookHandler.Create)
		r.Patch("/livro/{id}", bookHandler.Update)
		r.Delete("/livro/{id}", bookHandler.Delete)
	})

	return r
}
