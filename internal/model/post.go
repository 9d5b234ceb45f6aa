// Package model はドメインモデルを定義する。
package model

import "time"

// Post は公開済みの投稿を表す。
// Contentはブロック列を平坦化したmarkdownテキストであり、
// 元のブロック構造は保持されない（一方向変換）。
type Post struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostUpdate は投稿の部分更新を表す。
// nilフィールドは変更しない。
type PostUpdate struct {
	Title   *string
	Content *string
}
