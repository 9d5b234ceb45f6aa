package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// CreatePost は投稿を作成する。
	CreatePost(ctx context.Context, title, content string) (*model.Post, error)
	// GetPost は指定IDの投稿を取得する。
	GetPost(ctx context.Context, id string) (*model.Post, error)
	// ListPosts は全投稿を作成日時の降順で返す。
	ListPosts(ctx context.Context) ([]*model.Post, error)
	// UpdatePost は投稿を部分更新する。
	UpdatePost(ctx context.Context, id string, update model.PostUpdate) (*model.Post, error)
	// DeletePost は投稿を削除する。
	DeletePost(ctx context.Context, id string) error
}

// PreviewRenderer はmarkdownプレビューのレンダリングインターフェース。
type PreviewRenderer interface {
	Render(md string) string
}

// PostMetrics は投稿イベントのメトリクス記録インターフェース。nil可。
type PostMetrics interface {
	RecordPostCreated()
	RecordPostDeleted()
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	service  PostServiceInterface
	renderer PreviewRenderer
	metrics  PostMetrics
}

// NewPostHandler はPostHandlerを生成する。rendererとmetricsはnil可。
func NewPostHandler(service PostServiceInterface, renderer PreviewRenderer, metrics PostMetrics) *PostHandler {
	return &PostHandler{
		service:  service,
		renderer: renderer,
		metrics:  metrics,
	}
}

// postPayload は投稿作成・更新リクエストのボディ。
// 歴史的経緯により複数のペイロード形状を受け付ける:
// {title, content} / {title|name, body} / {post: {...}}。
// 境界で単一の正規形に変換し、以降の層には露出させない。
type postPayload struct {
	Title   *string      `json:"title"`
	Name    *string      `json:"name"`
	Content *string      `json:"content"`
	Body    *string      `json:"body"`
	Post    *postPayload `json:"post"`
}

// normalize はペイロードを正規形（title, content）に変換する。
// ネストされた {post: {...}} 形状が最優先。
// title > name、content > body の優先順で解決する。
func (p *postPayload) normalize() (title, content *string) {
	if p.Post != nil {
		return p.Post.normalize()
	}

	title = p.Title
	if title == nil {
		title = p.Name
	}

	content = p.Content
	if content == nil {
		content = p.Body
	}

	return title, content
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// previewRequest はプレビューリクエストのボディ。
type previewRequest struct {
	Content string `json:"content"`
}

// CreatePost は投稿作成を処理する。
// POST /api/v1/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	title, content := payload.normalize()
	if title == nil || *title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("title"))
		return
	}
	if content == nil || *content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("content"))
		return
	}

	post, err := h.service.CreatePost(r.Context(), *title, *content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPostCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// GetPost は投稿詳細を取得する。
// GET /api/v1/posts/:id
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// ListPosts は投稿一覧を作成日時の降順で返す。
// GET /api/v1/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]postResponse, len(posts))
	for i, p := range posts {
		results[i] = toPostResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// UpdatePost は投稿の部分更新を処理する。指定されなかったフィールドは変更しない。
// PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	title, content := payload.normalize()
	if title == nil && content == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("title または content"))
		return
	}

	post, err := h.service.UpdatePost(r.Context(), postID, model.PostUpdate{
		Title:   title,
		Content: content,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// DeletePost は投稿削除を処理する。
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	if err := h.service.DeletePost(r.Context(), postID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPostDeleted()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Preview はmarkdownをサニタイズ済みHTMLに変換して返す。
// POST /api/v1/posts/preview
func (h *PostHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "PREVIEW_UNAVAILABLE",
			Message:  "プレビュー機能は利用できません。",
			Category: "system",
			Action:   "サーバー設定を確認してください。",
		})
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("content"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"html": h.renderer.Render(req.Content),
	})
}

// --- ヘルパー関数 ---

// toPostResponse はmodel.PostからAPIレスポンスに変換する。
func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingFields, model.ErrCodeInvalidRequest, model.ErrCodeInvalidBlockType:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodePostNotFound, model.ErrCodeDraftNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
