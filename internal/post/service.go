// Package post は投稿管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// Service は投稿CRUDのサービス層。
// 永続化層の失敗は原因を呼び出し元へ露出せず、ログとラップ済み
// エラーのみを返す（ハンドラー側で500に集約される）。
type Service struct {
	repo repository.PostRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.PostRepository) *Service {
	return &Service{repo: repo}
}

// CreatePost は投稿を作成する。
// titleとcontentはハンドラー境界で正規化・検証済みであることを前提とする。
func (s *Service) CreatePost(ctx context.Context, title, content string) (*model.Post, error) {
	now := time.Now()
	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("title", post.Title),
	)

	return post, nil
}

// Publish はeditor.Publisherを実装する。CreatePostの別名。
func (s *Service) Publish(ctx context.Context, title, content string) (*model.Post, error) {
	return s.CreatePost(ctx, title, content)
}

// GetPost は指定IDの投稿を取得する。
// 見つからない場合はPOST_NOT_FOUNDエラーを返す。
func (s *Service) GetPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}
	return post, nil
}

// ListPosts は全投稿を作成日時の降順で返す。
func (s *Service) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost は投稿を部分更新する。nilフィールドは変更しない。
// 見つからない場合はPOST_NOT_FOUNDエラーを返す。
func (s *Service) UpdatePost(ctx context.Context, id string, update model.PostUpdate) (*model.Post, error) {
	post, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}

	slog.Info("post updated", slog.String("post_id", id))
	return post, nil
}

// DeletePost は投稿を削除する。
// 見つからない場合はPOST_NOT_FOUNDエラーを返す。
func (s *Service) DeletePost(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		return model.NewPostNotFoundError(id)
	}

	slog.Info("post deleted", slog.String("post_id", id))
	return nil
}
