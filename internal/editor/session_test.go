package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/blogman/internal/model"
)

// mockPublisher はPublisherのモック実装。
type mockPublisher struct {
	publishFn func(ctx context.Context, title, content string) (*model.Post, error)
	calls     int
}

func (m *mockPublisher) Publish(ctx context.Context, title, content string) (*model.Post, error) {
	m.calls++
	if m.publishFn != nil {
		return m.publishFn(ctx, title, content)
	}
	return &model.Post{ID: "post-1", Title: title, Content: content}, nil
}

func TestNewEditor_RestoresSavedDraft(t *testing.T) {
	store := &mockDraftStore{
		loadFn: func() ([]model.Block, error) {
			return []model.Block{
				{ID: "b1", Type: model.BlockTypeHeading, Content: "Restored"},
			}, nil
		},
	}

	e := NewEditor(store, &mockPublisher{}, time.Second)
	defer e.Close()

	if got := e.Document().Title(); got != "Restored" {
		t.Errorf("Title() = %q, want %q", got, "Restored")
	}
}

func TestNewEditor_NoDraft_UsesDefaultBlocks(t *testing.T) {
	e := NewEditor(&mockDraftStore{}, &mockPublisher{}, time.Second)
	defer e.Close()

	if got := e.Document().Len(); got != 2 {
		t.Fatalf("len = %d, want 2 default blocks", got)
	}
	if got := e.Document().Title(); got != DefaultTitle {
		t.Errorf("Title() = %q, want %q", got, DefaultTitle)
	}
}

func TestNewEditor_LoadError_FallsBackToDefault(t *testing.T) {
	store := &mockDraftStore{
		loadFn: func() ([]model.Block, error) {
			return nil, errors.New("corrupt draft")
		},
	}

	e := NewEditor(store, &mockPublisher{}, time.Second)
	defer e.Close()

	if got := e.Document().Len(); got != 2 {
		t.Errorf("len = %d, want 2 default blocks on load error", got)
	}
}

func TestEditor_Save_Unauthenticated_NoNetworkEffect(t *testing.T) {
	pub := &mockPublisher{}
	e := NewEditor(&mockDraftStore{}, pub, time.Second)
	defer e.Close()

	_, err := e.Save(context.Background())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
		t.Fatalf("err = %v, want UNAUTHORIZED APIError", err)
	}
	if pub.calls != 0 {
		t.Errorf("publish calls = %d, want 0", pub.calls)
	}
}

func TestEditor_Save_Authenticated_PublishesAndClearsDraft(t *testing.T) {
	store := &mockDraftStore{
		loadFn: func() ([]model.Block, error) {
			return []model.Block{
				{ID: "b1", Type: model.BlockTypeHeading, Content: "Launch Note"},
				{ID: "b2", Type: model.BlockTypeParagraph, Content: "We shipped."},
			}, nil
		},
	}
	var gotTitle, gotContent string
	pub := &mockPublisher{
		publishFn: func(ctx context.Context, title, content string) (*model.Post, error) {
			gotTitle = title
			gotContent = content
			return &model.Post{ID: "post-1", Title: title, Content: content}, nil
		},
	}

	e := NewEditor(store, pub, time.Second)
	defer e.Close()
	e.SetAuthenticated(true)

	post, err := e.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != "post-1" {
		t.Errorf("post.ID = %q, want %q", post.ID, "post-1")
	}

	if gotTitle != "Launch Note" {
		t.Errorf("title = %q, want %q", gotTitle, "Launch Note")
	}
	if gotContent != "# Launch Note\n\nWe shipped." {
		t.Errorf("content = %q, want flattened markdown", gotContent)
	}

	if store.clears != 1 {
		t.Errorf("clears = %d, want 1 after successful publish", store.clears)
	}
}

func TestEditor_Save_PublishError_KeepsDraft(t *testing.T) {
	store := &mockDraftStore{}
	pub := &mockPublisher{
		publishFn: func(ctx context.Context, title, content string) (*model.Post, error) {
			return nil, errors.New("network down")
		},
	}

	e := NewEditor(store, pub, time.Second)
	defer e.Close()
	e.SetAuthenticated(true)

	if _, err := e.Save(context.Background()); err == nil {
		t.Fatal("expected publish error")
	}
	if store.clears != 0 {
		t.Errorf("clears = %d, want 0 when publish fails", store.clears)
	}
}

func TestEditor_Mutations_ScheduleAutosaveWhenUnauthenticated(t *testing.T) {
	store := &mockDraftStore{}
	e := NewEditor(store, &mockPublisher{}, 10*time.Millisecond)
	defer e.Close()

	if _, err := e.AddBlock(model.BlockTypeParagraph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if got := store.savedCount(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestEditor_Mutations_AutosaveSuppressedWhenAuthenticated(t *testing.T) {
	store := &mockDraftStore{}
	e := NewEditor(store, &mockPublisher{}, 10*time.Millisecond)
	defer e.Close()
	e.SetAuthenticated(true)

	if _, err := e.AddBlock(model.BlockTypeParagraph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.UpdateBlock(e.Document().Blocks()[0].ID, "edited")

	time.Sleep(100 * time.Millisecond)

	if got := store.savedCount(); got != 0 {
		t.Errorf("saves = %d, want 0 while authenticated", got)
	}
}

func TestEditor_ClearDraft_Idempotent(t *testing.T) {
	store := &mockDraftStore{}
	e := NewEditor(store, &mockPublisher{}, time.Second)
	defer e.Close()

	if err := e.ClearDraft(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.ClearDraft(); err != nil {
		t.Fatalf("second clear should also succeed: %v", err)
	}
	if store.clears != 2 {
		t.Errorf("clears = %d, want 2", store.clears)
	}
}
