// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/blogman/internal/model"
)

// ErrDuplicateEmail はメールアドレスのユニーク制約違反を表す。
// ストア側の制約（unique index）で強制され、リポジトリが検出して返す。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが重複している場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ListAll は全ユーザーを作成日時の昇順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// ListAll は全投稿を作成日時の降順で返す。
	ListAll(ctx context.Context) ([]*model.Post, error)

	// Update は投稿を部分更新し、更新後の投稿を返す。
	// nilフィールドは変更しない。見つからない場合はnilを返す。
	Update(ctx context.Context, id string, update model.PostUpdate) (*model.Post, error)

	// DeleteByID は指定IDの投稿を削除する。
	// 削除対象が存在した場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// DraftRepository はユーザーごとの下書きスロットの永続化インターフェース。
// 1ユーザーにつき1スロットのみ存在し、保存のたびに全体が上書きされる。
type DraftRepository interface {
	// Save は下書きを冪等にUPSERTする。
	Save(ctx context.Context, draft *model.Draft) error

	// FindByOwner は指定ユーザーの下書きを取得する。見つからない場合はnilを返す。
	FindByOwner(ctx context.Context, ownerID string) (*model.Draft, error)

	// DeleteByOwner は指定ユーザーの下書きを削除する。冪等。
	DeleteByOwner(ctx context.Context, ownerID string) error
}
