package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/model"
)

func createTestPost(t *testing.T, repo *PostgresPostRepo, title string, createdAt time.Time) *model.Post {
	t.Helper()

	post := &model.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   "# " + title + "\n\n本文",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("テスト投稿の作成に失敗しました: %v", err)
	}
	return post
}

func TestPostgresPostRepo_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)
	ctx := context.Background()

	post := createTestPost(t, repo, "First Post", time.Now())

	found, err := repo.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.Title != "First Post" {
		t.Errorf("FindByID = %+v, want the created post", found)
	}
}

func TestPostgresPostRepo_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)

	found, err := repo.FindByID(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("FindByID = %+v, want nil", found)
	}
}

func TestPostgresPostRepo_ListAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)

	createTestPost(t, repo, "older", time.Now().Add(-time.Hour))
	createTestPost(t, repo, "newer", time.Now())

	posts, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	if posts[0].Title != "newer" || posts[1].Title != "older" {
		t.Errorf("order = [%s, %s], want created_at descending", posts[0].Title, posts[1].Title)
	}
}

func TestPostgresPostRepo_Update_Partial(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)
	ctx := context.Background()

	post := createTestPost(t, repo, "Original", time.Now())

	newTitle := "Updated"
	updated, err := repo.Update(ctx, post.ID, model.PostUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated post")
	}
	if updated.Title != "Updated" {
		t.Errorf("title = %q, want %q", updated.Title, "Updated")
	}
	// nilフィールドは変更しない
	if updated.Content != post.Content {
		t.Errorf("content = %q, want unchanged %q", updated.Content, post.Content)
	}
}

func TestPostgresPostRepo_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)

	title := "x"
	updated, err := repo.Update(context.Background(), uuid.NewString(), model.PostUpdate{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Errorf("Update = %+v, want nil", updated)
	}
}

func TestPostgresPostRepo_DeleteByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepo(db)
	ctx := context.Background()

	post := createTestPost(t, repo, "to delete", time.Now())

	deleted, err := repo.DeleteByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("deleted = false, want true")
	}

	// 2回目の削除は対象なし
	deleted, err = repo.DeleteByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("deleted = true, want false for missing post")
	}
}
