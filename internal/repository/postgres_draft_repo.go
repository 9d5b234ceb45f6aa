package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/blogman/internal/model"
)

// PostgresDraftRepo はPostgreSQLを使用した下書きリポジトリ。
// owner_idを主キーとした1ユーザー1スロットのテーブルで、
// 保存はON CONFLICTによる全体上書きUPSERT。
type PostgresDraftRepo struct {
	db *sql.DB
}

// NewPostgresDraftRepo はPostgresDraftRepoを生成する。
func NewPostgresDraftRepo(db *sql.DB) *PostgresDraftRepo {
	return &PostgresDraftRepo{db: db}
}

// Save は下書きを冪等にUPSERTする。
func (r *PostgresDraftRepo) Save(ctx context.Context, draft *model.Draft) error {
	blocksJSON, err := json.Marshal(draft.Blocks)
	if err != nil {
		return fmt.Errorf("failed to marshal draft blocks: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO drafts (owner_id, blocks, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id)
		 DO UPDATE SET blocks = EXCLUDED.blocks, updated_at = EXCLUDED.updated_at`,
		draft.OwnerID, blocksJSON, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// FindByOwner は指定ユーザーの下書きを取得する。見つからない場合はnilを返す。
func (r *PostgresDraftRepo) FindByOwner(ctx context.Context, ownerID string) (*model.Draft, error) {
	draft := &model.Draft{}
	var blocksJSON []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id, blocks, updated_at FROM drafts WHERE owner_id = $1`,
		ownerID,
	).Scan(&draft.OwnerID, &blocksJSON, &draft.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}

	if err := json.Unmarshal(blocksJSON, &draft.Blocks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft blocks: %w", err)
	}

	return draft, nil
}

// DeleteByOwner は指定ユーザーの下書きを削除する。冪等。
func (r *PostgresDraftRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// compile-time interface check
var _ DraftRepository = (*PostgresDraftRepo)(nil)
