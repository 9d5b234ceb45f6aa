// Package model はドメインモデルを定義する。
package model

import "time"

// BlockType はエディタブロックの種別を表す。
type BlockType string

const (
	// BlockTypeParagraph は段落ブロック。
	BlockTypeParagraph BlockType = "paragraph"
	// BlockTypeHeading は見出しブロック。
	BlockTypeHeading BlockType = "heading"
	// BlockTypeCode はコードブロック。Languageを任意で持つ。
	BlockTypeCode BlockType = "code"
	// BlockTypeImage は画像ブロック。ContentにURLを持つ。
	BlockTypeImage BlockType = "image"
	// BlockTypeList はリストブロック。Contentは改行区切りの項目列。
	BlockTypeList BlockType = "list"
)

// Valid はブロック種別が定義済みのものか検証する。
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeParagraph, BlockTypeHeading, BlockTypeCode, BlockTypeImage, BlockTypeList:
		return true
	}
	return false
}

// Block はユーザーが編集する1つのコンテンツ単位を表す。
// IDはエディタセッション内でのみ一意性が期待される（衝突耐性のある生成規則、
// 再読込をまたいだ生成順の単調性は保証しない）。
// 並び順は意味を持つ（上から下に描画される）。
type Block struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Content  string    `json:"content"`
	Language string    `json:"language,omitempty"` // コードブロックのみ
}

// Draft はローカルまたはサーバーに永続化された未保存のブロック列を表す。
// 固定スロットに1件のみ存在し、フラッシュごとに全体が上書きされる。
type Draft struct {
	OwnerID   string
	Blocks    []Block
	UpdatedAt time.Time
}
