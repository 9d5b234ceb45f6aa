// Package editor はブロックベースの投稿編集セッションを提供する。
// ブロック列の編集操作、markdownへの平坦化、下書きの自動保存を扱う。
package editor

import (
	"strings"

	"github.com/hitoshi/blogman/internal/model"
)

// Direction はブロック移動の方向を表す。
type Direction int

const (
	// MoveUp はブロックを1つ上へ移動する。
	MoveUp Direction = -1
	// MoveDown はブロックを1つ下へ移動する。
	MoveDown Direction = 1
)

// DefaultTitle は見出しブロックが存在しない場合の投稿タイトル。
const DefaultTitle = "Untitled"

// Document はメモリ上の順序付きブロック列を保持する。
// すべての操作は同期的で、単一ゴルーチンからの利用を想定する。
type Document struct {
	blocks []model.Block
}

// NewDocument は指定されたブロック列からDocumentを生成する。
// blocksがnilの場合は空のドキュメントになる。
func NewDocument(blocks []model.Block) *Document {
	return &Document{blocks: append([]model.Block(nil), blocks...)}
}

// DefaultBlocks は新規ドキュメントの初期ブロック列を返す。
// 見出し1つと段落1つからなる。
func DefaultBlocks() []model.Block {
	return []model.Block{
		{ID: NewBlockID(), Type: model.BlockTypeHeading, Content: DefaultTitle},
		{ID: NewBlockID(), Type: model.BlockTypeParagraph, Content: "Start writing your post..."},
	}
}

// Blocks は現在のブロック列のコピーを返す。
func (d *Document) Blocks() []model.Block {
	return append([]model.Block(nil), d.blocks...)
}

// Len はブロック数を返す。
func (d *Document) Len() int {
	return len(d.blocks)
}

// AddBlock は指定種別の空ブロックを末尾に追加し、追加したブロックを返す。
// 未定義のブロック種別の場合はエラーを返す。
func (d *Document) AddBlock(blockType model.BlockType) (model.Block, error) {
	if !blockType.Valid() {
		return model.Block{}, model.NewInvalidBlockTypeError(string(blockType))
	}
	block := model.Block{
		ID:      NewBlockID(),
		Type:    blockType,
		Content: "",
	}
	d.blocks = append(d.blocks, block)
	return block, nil
}

// UpdateBlock は指定IDのブロックの内容を置き換える。
// IDが存在しない場合は何もしない。
func (d *Document) UpdateBlock(id, content string) {
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks[i].Content = content
			return
		}
	}
}

// SetLanguage は指定IDのコードブロックの言語タグを設定する。
// IDが存在しない場合は何もしない。
func (d *Document) SetLanguage(id, language string) {
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks[i].Language = language
			return
		}
	}
}

// DeleteBlock は指定IDのブロックを削除する。
// IDが存在しない場合は何もしない。
func (d *Document) DeleteBlock(id string) {
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return
		}
	}
}

// MoveBlock は指定IDのブロックを隣接位置と入れ替える。
// すでに端にある場合、またはIDが存在しない場合は何もしない。
func (d *Document) MoveBlock(id string, dir Direction) {
	idx := -1
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	newIdx := idx + int(dir)
	if newIdx < 0 || newIdx >= len(d.blocks) {
		return
	}

	d.blocks[idx], d.blocks[newIdx] = d.blocks[newIdx], d.blocks[idx]
}

// Title は最初の見出しブロックの内容を返す。
// 見出しが存在しない、または内容が空の場合はDefaultTitleを返す。
func (d *Document) Title() string {
	for _, b := range d.blocks {
		if b.Type == model.BlockTypeHeading {
			if b.Content == "" {
				return DefaultTitle
			}
			return b.Content
		}
	}
	return DefaultTitle
}

// ExportMarkdown はブロック列を平坦なmarkdownテキストに変換する。
// 変換は決定的かつ一方向であり、出力からブロック構造を復元することはできない。
// 各ブロックは種別ごとの固定レンダリングでテキスト化され、空行で結合される。
func (d *Document) ExportMarkdown() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		parts[i] = renderBlock(b)
	}
	return strings.Join(parts, "\n\n")
}

// renderBlock は1ブロックを種別ごとの固定markdown表現に変換する。
func renderBlock(b model.Block) string {
	switch b.Type {
	case model.BlockTypeHeading:
		return "# " + b.Content
	case model.BlockTypeCode:
		return "```" + b.Language + "\n" + b.Content + "\n```"
	case model.BlockTypeImage:
		return "![Image](" + b.Content + ")"
	case model.BlockTypeList:
		lines := strings.Split(b.Content, "\n")
		for i, line := range lines {
			lines[i] = "- " + line
		}
		return strings.Join(lines, "\n")
	default:
		return b.Content
	}
}
