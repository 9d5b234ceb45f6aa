// Package cleanup は期限切れデータの自動削除ジョブを提供する。
// 有効期限を超過したセッションと、保持期間（デフォルト30日）を超えて
// 更新されていない下書きを定期バッチで削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// MetricsRecorder はクリーンアップ件数を記録するインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordSessionsCleaned(count int)
	RecordDraftsCleaned(count int)
}

// CleanupJob は期限切れセッションと古い下書きの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db                 Executor
	logger             *slog.Logger
	metrics            MetricsRecorder
	DraftRetentionDays int // 下書きの保持日数（デフォルト: 30）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの下書き保持日数は30日。metricsはnil可。
func NewCleanupJob(db Executor, logger *slog.Logger, metrics MetricsRecorder) *CleanupJob {
	return &CleanupJob{
		db:                 db,
		logger:             logger,
		metrics:            metrics,
		DraftRetentionDays: 30,
	}
}

// Run は期限切れセッションと古い下書きを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	sessionsDeleted, err := j.cleanupSessions(ctx)
	if err != nil {
		return err
	}

	draftsDeleted, err := j.cleanupDrafts(ctx)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("sessions_deleted", sessionsDeleted),
		slog.Int64("drafts_deleted", draftsDeleted),
		slog.Int("draft_retention_days", j.DraftRetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// cleanupSessions は有効期限を超過したセッションを削除する。
func (j *CleanupJob) cleanupSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < now()`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("セッションクリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordSessionsCleaned(int(deleted))
	}

	return deleted, nil
}

// cleanupDrafts は保持期間を超えて更新されていない下書きを削除する。
// updated_atがDraftRetentionDays日前より古い下書きをDELETEする。
func (j *CleanupJob) cleanupDrafts(ctx context.Context) (int64, error) {
	interval := fmt.Sprintf("%d days", j.DraftRetentionDays)

	query := `DELETE FROM drafts WHERE updated_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("下書きクリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("draft_retention_days", j.DraftRetentionDays),
		)
		return 0, fmt.Errorf("下書きクリーンアップの実行に失敗: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordDraftsCleaned(int(deleted))
	}

	return deleted, nil
}
