package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/blogman/internal/model"
)

// Publisher は完成した投稿の公開インターフェース。
// post.Serviceの部分集合として定義する。
type Publisher interface {
	// Publish はタイトルと平坦化済みコンテンツから投稿を作成する。
	Publish(ctx context.Context, title, content string) (*model.Post, error)
}

// Editor は1つの編集セッションを駆動する。
// ブロック変更のたびに未認証時のみローカル下書きの自動保存を予約し、
// 明示的なSaveで投稿として公開する。
//
// 並行Save呼び出しに対する排他制御は行わない。対話的な単一ユーザー
// 利用が前提で、送信中の二重Saveは既知のギャップとして残している。
type Editor struct {
	doc       *Document
	store     DraftStore
	autosave  *Autosaver
	publisher Publisher

	authenticated bool
}

// NewEditor はEditorを生成し、保存済み下書きがあれば復元する。
// 下書きが存在しない、または解析に失敗した場合は
// 既定のブロック列（見出し+段落）で初期化する。
func NewEditor(store DraftStore, publisher Publisher, debounce time.Duration) *Editor {
	blocks, err := store.Load()
	if err != nil {
		slog.Warn("failed to load draft, falling back to default blocks",
			slog.String("error", err.Error()),
		)
		blocks = nil
	}
	if len(blocks) == 0 {
		blocks = DefaultBlocks()
	}

	return &Editor{
		doc:       NewDocument(blocks),
		store:     store,
		autosave:  NewAutosaver(store, debounce),
		publisher: publisher,
	}
}

// SetAuthenticated は認証状態を切り替える。
// 認証中はローカル下書きの自動保存を抑止する。
func (e *Editor) SetAuthenticated(v bool) {
	e.authenticated = v
}

// Document は編集中のドキュメントを返す。
func (e *Editor) Document() *Document {
	return e.doc
}

// AddBlock は指定種別の空ブロックを末尾に追加する。
func (e *Editor) AddBlock(blockType model.BlockType) (model.Block, error) {
	block, err := e.doc.AddBlock(blockType)
	if err != nil {
		return model.Block{}, err
	}
	e.scheduleAutosave()
	return block, nil
}

// UpdateBlock は指定IDのブロックの内容を置き換える。IDが存在しない場合は何もしない。
func (e *Editor) UpdateBlock(id, content string) {
	e.doc.UpdateBlock(id, content)
	e.scheduleAutosave()
}

// SetLanguage は指定IDのコードブロックの言語タグを設定する。
func (e *Editor) SetLanguage(id, language string) {
	e.doc.SetLanguage(id, language)
	e.scheduleAutosave()
}

// DeleteBlock は指定IDのブロックを削除する。IDが存在しない場合は何もしない。
func (e *Editor) DeleteBlock(id string) {
	e.doc.DeleteBlock(id)
	e.scheduleAutosave()
}

// MoveBlock は指定IDのブロックを隣接位置と入れ替える。端では何もしない。
func (e *Editor) MoveBlock(id string, dir Direction) {
	e.doc.MoveBlock(id, dir)
	e.scheduleAutosave()
}

// Save はドキュメントを投稿として公開する。
// 未認証の場合はネットワーク効果なしでUNAUTHORIZEDエラーを返す
// （呼び出し側がログインを促すメッセージを表示する）。
// 公開に成功した場合はローカル下書きを削除する。
func (e *Editor) Save(ctx context.Context) (*model.Post, error) {
	if !e.authenticated {
		return nil, model.NewUnauthorizedError()
	}

	post, err := e.publisher.Publish(ctx, e.doc.Title(), e.doc.ExportMarkdown())
	if err != nil {
		return nil, err
	}

	e.autosave.Stop()
	if err := e.store.Clear(); err != nil {
		// 公開自体は成功しているため、下書き削除の失敗はログに留める
		slog.Warn("failed to clear draft after publish",
			slog.String("error", err.Error()),
		)
	}

	return post, nil
}

// ClearDraft はローカル下書きを削除する。冪等。
func (e *Editor) ClearDraft() error {
	e.autosave.Stop()
	return e.store.Clear()
}

// Close は保留中の自動保存をキャンセルする。
func (e *Editor) Close() {
	e.autosave.Stop()
}

// scheduleAutosave は未認証時のみデバウンス付き自動保存を予約する。
// 認証済みユーザーはローカル下書きを使用しない。
func (e *Editor) scheduleAutosave() {
	if e.authenticated {
		return
	}
	e.autosave.Schedule(e.doc.Blocks())
}
