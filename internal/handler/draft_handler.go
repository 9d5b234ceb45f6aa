package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// DraftStoreInterface は下書きハンドラーが必要とする永続化インターフェース。
// repository.DraftRepositoryと同一のシグネチャを持つ。
type DraftStoreInterface interface {
	// Save は下書きを冪等にUPSERTする。
	Save(ctx context.Context, draft *model.Draft) error
	// FindByOwner は指定ユーザーの下書きを取得する。見つからない場合はnilを返す。
	FindByOwner(ctx context.Context, ownerID string) (*model.Draft, error)
	// DeleteByOwner は指定ユーザーの下書きを削除する。冪等。
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// DraftMetrics は下書き保存のメトリクス記録インターフェース。nil可。
type DraftMetrics interface {
	RecordDraftSaved()
}

// DraftHandler はユーザーごとの下書きスロットのHTTPハンドラー。
// 1ユーザーにつき1スロットのみ存在し、保存のたびに全体が上書きされる。
type DraftHandler struct {
	store   DraftStoreInterface
	metrics DraftMetrics
}

// NewDraftHandler はDraftHandlerを生成する。metricsはnil可。
func NewDraftHandler(store DraftStoreInterface, metrics DraftMetrics) *DraftHandler {
	return &DraftHandler{
		store:   store,
		metrics: metrics,
	}
}

// saveDraftRequest は下書き保存リクエストのボディ。
type saveDraftRequest struct {
	Blocks []model.Block `json:"blocks"`
}

// draftResponse は下書きのAPIレスポンス。
type draftResponse struct {
	Blocks    []model.Block `json:"blocks"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// GetDraft は現在のユーザーの下書きを返す。
// GET /api/v1/drafts
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	draft, err := h.store.FindByOwner(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if draft == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewDraftNotFoundError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draftResponse{
		Blocks:    draft.Blocks,
		UpdatedAt: draft.UpdatedAt,
	})
}

// SaveDraft は現在のユーザーの下書きスロットを上書き保存する。
// PUT /api/v1/drafts
func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// ブロック種別の検証
	for _, b := range req.Blocks {
		if !b.Type.Valid() {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidBlockTypeError(string(b.Type)))
			return
		}
	}

	draft := &model.Draft{
		OwnerID:   userID,
		Blocks:    req.Blocks,
		UpdatedAt: time.Now(),
	}

	if err := h.store.Save(r.Context(), draft); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDraftSaved()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draftResponse{
		Blocks:    draft.Blocks,
		UpdatedAt: draft.UpdatedAt,
	})
}

// DeleteDraft は現在のユーザーの下書きを削除する。冪等。
// DELETE /api/v1/drafts
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.store.DeleteByOwner(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
