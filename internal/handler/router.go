package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
)

// Pinger はデータベース疎通確認のインターフェース。
// *sql.DBを受け付けることができる。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ユーザー
	UserService UserServiceInterface

	// 投稿
	PostService PostServiceInterface

	// 下書き
	DraftStore DraftStoreInterface

	// プレビュー（nil可）
	PreviewRenderer PreviewRenderer

	// メトリクス（nil可）
	HTTPMetrics  middleware.HTTPMetricsRecorder
	AuthMetrics  AuthMetrics
	PostMetrics  PostMetrics
	DraftMetrics DraftMetrics

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//	→ [Session → RateLimit(General)] （保護ルートのみ）
//
// 読み取り系の投稿・ユーザー一覧とサインアップ/ログインは認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.AuthMetrics)
	userHandler := NewUserHandler(deps.UserService)
	postHandler := NewPostHandler(deps.PostService, deps.PreviewRenderer, deps.PostMetrics)
	draftHandler := NewDraftHandler(deps.DraftStore, deps.DraftMetrics)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.DB))

	r.Post("/api/v1/users/signup", authHandler.Signup)
	r.Post("/api/v1/users/login", authHandler.Login)
	r.Get("/api/v1/users", userHandler.ListUsers)

	r.Get("/api/v1/posts", postHandler.ListPosts)
	r.Get("/api/v1/posts/{id}", postHandler.GetPost)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Post("/api/v1/users/logout", authHandler.Logout)
		r.Get("/api/v1/users/me", authHandler.Me)
		r.Delete("/api/v1/users/me", userHandler.Withdraw)

		// 投稿の作成・更新には書き込み専用レート制限を追加
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.WriteMiddleware()).Post("/api/v1/posts", postHandler.CreatePost)
			r.With(deps.RateLimiter.WriteMiddleware()).Put("/api/v1/posts/{id}", postHandler.UpdatePost)
		} else {
			r.Post("/api/v1/posts", postHandler.CreatePost)
			r.Put("/api/v1/posts/{id}", postHandler.UpdatePost)
		}
		r.Delete("/api/v1/posts/{id}", postHandler.DeletePost)
		r.Post("/api/v1/posts/preview", postHandler.Preview)

		r.Get("/api/v1/drafts", draftHandler.GetDraft)
		r.Put("/api/v1/drafts", draftHandler.SaveDraft)
		r.Delete("/api/v1/drafts", draftHandler.DeleteDraft)
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
