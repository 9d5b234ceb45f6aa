// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// DraftDeleter はユーザーに紐づく下書きの削除インターフェース。
type DraftDeleter interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// Service はユーザー管理のサービス層。
// ユーザー一覧と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	draftDeleter DraftDeleter
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	draftDeleter DraftDeleter,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		draftDeleter: draftDeleter,
	}
}

// ListUsers は全ユーザーの公開プロジェクション一覧を返す。
// パスワードハッシュは含まない。
func (s *Service) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	results := make([]model.PublicUser, len(users))
	for i, u := range users {
		results[i] = u.Public()
	}
	return results, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: drafts → sessions → user。投稿は共有コンテンツとして残す。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("withdrawing user",
		slog.String("user_id", userID),
	)

	// 1. 下書きを削除
	if s.draftDeleter != nil {
		if err := s.draftDeleter.DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete drafts: %w", err)
		}
	}

	// 2. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
	}

	// 3. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user withdrawn",
		slog.String("user_id", userID),
	)

	return nil
}
