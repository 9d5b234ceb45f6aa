package editor

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// NewBlockID は編集セッション内で衝突しにくいブロックIDを生成する。
// 粗いタイムスタンプ（ミリ秒のbase36表現）とランダムなサフィックスの
// 組み合わせで、暗号的な一意性は保証しない。再読込をまたいだ
// 生成順の単調性も保証しない。
func NewBlockID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s-%d", ts, rand.Intn(10000))
}
