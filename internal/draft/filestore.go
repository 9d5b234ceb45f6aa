// Package draft はローカル下書きの固定スロット永続化を提供する。
// ブラウザのlocalStorageに相当する、単一キーの耐久キャッシュ。
package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hitoshi/blogman/internal/model"
)

// FileStore は単一のJSONファイルを固定スロットとして使う下書きストア。
// 常に同じパスに全体を上書きするため、下書きは最大1件しか存在しない。
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore は指定パスをスロットとするFileStoreを生成する。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save はブロック列をスロットに上書き保存する。
func (s *FileStore) Save(blocks []model.Block) error {
	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write draft file: %w", err)
	}
	return nil
}

// Load は保存済みのブロック列を返す。
// ファイルが存在しない場合は(nil, nil)、解析に失敗した場合はエラーを返す
// （呼び出し側が既定のブロック列にフォールバックする）。
func (s *FileStore) Load() ([]model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}

	var blocks []model.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("failed to parse draft file: %w", err)
	}
	return blocks, nil
}

// Clear はスロットを削除する。スロットが存在しない場合も成功扱い（冪等）。
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove draft file: %w", err)
	}
	return nil
}
