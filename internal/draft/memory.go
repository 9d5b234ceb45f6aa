package draft

import (
	"sync"

	"github.com/hitoshi/blogman/internal/model"
)

// MemoryStore はメモリ上の固定スロット下書きストア。
// テストおよび永続化先が不要な用途で使用する。
type MemoryStore struct {
	mu     sync.Mutex
	blocks []model.Block
	saved  bool
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save はブロック列をスロットに上書き保存する。
func (s *MemoryStore) Save(blocks []model.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = append([]model.Block(nil), blocks...)
	s.saved = true
	return nil
}

// Load は保存済みのブロック列を返す。未保存の場合は(nil, nil)を返す。
func (s *MemoryStore) Load() ([]model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return nil, nil
	}
	return append([]model.Block(nil), s.blocks...), nil
}

// Clear はスロットを削除する。冪等。
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = nil
	s.saved = false
	return nil
}
