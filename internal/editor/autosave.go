package editor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/blogman/internal/model"
)

// DraftStore は下書きの永続化インターフェース。
// 固定スロット1件のみを扱い、Saveのたびに全体を上書きする。
type DraftStore interface {
	// Save はブロック列をスロットに上書き保存する。
	Save(blocks []model.Block) error
	// Load は保存済みのブロック列を返す。未保存の場合は(nil, nil)を返す。
	Load() ([]model.Block, error)
	// Clear はスロットを削除する。冪等。
	Clear() error
}

// Autosaver は下書きのデバウンス付き自動保存を提供する。
// 保留中のタイマーは常に最大1つで、新しいスケジュール要求は
// 未発火の前回タイマーをキャンセルして置き換える
// （静止期間内はlast write winsであり、バッチングではない）。
type Autosaver struct {
	store DraftStore
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewAutosaver はAutosaverを生成する。
func NewAutosaver(store DraftStore, delay time.Duration) *Autosaver {
	return &Autosaver{
		store: store,
		delay: delay,
	}
}

// Schedule は静止期間経過後のフラッシュを予約する。
// 静止期間内に再度呼ばれた場合、前回の予約は破棄され
// 最後に渡されたブロック列のみが書き込まれる。
func (a *Autosaver) Schedule(blocks []model.Block) {
	// タイマー発火時まで呼び出し元の変更から隔離するためコピーする
	snapshot := append([]model.Block(nil), blocks...)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}

	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.store.Save(snapshot); err != nil {
			slog.Error("failed to autosave draft",
				slog.String("error", err.Error()),
			)
		}
	})
}

// Stop は保留中のフラッシュ予約をキャンセルする。
// 予約がない場合は何もしない。
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
