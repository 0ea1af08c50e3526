// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

// newTestArticle inserts a published article owned by author, cleaned up
// with the test.
func newTestArticle(t *testing.T, db *sql.DB, author *models.User, title, slug string) *models.Article {
	t.Helper()

	a, err := NewArticleStore(db).Create(&models.Article{
		Title:       title,
		Slug:        slug,
		Content:     "Body for " + title + ".",
		Excerpt:     "Excerpt.",
		AuthorID:    author.ID,
		Status:      models.ArticleStatusPublished,
		IsPublished: true,
		ReadingTime: 1,
	})
	if err != nil {
		t.Fatalf("create article %q: %v", slug, err)
	}
	t.Cleanup(func() { cleanArticles(t, db, slug) })
	return a
}

func TestArticleCreateAndSlugConflict(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)

	a := newTestArticle(t, db, author, "Article Conflict Test", "article-conflict-test")
	if a.Views != 0 || a.Likes != 0 {
		t.Errorf("fresh article counters = %d views, %d likes", a.Views, a.Likes)
	}

	_, err := s.Create(&models.Article{
		Title: "Article Conflict Dup", Slug: "article-conflict-test",
		AuthorID: author.ID, Status: models.ArticleStatusDraft,
	})
	if err == nil {
		t.Fatal("duplicate slug accepted")
	}
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate slug error is not a conflict: %v", err)
	}
}

func TestArticleCounters(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)
	a := newTestArticle(t, db, author, "Article Counter Test", "article-counter-test")

	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(a.ID); err != nil {
			t.Fatalf("increment views: %v", err)
		}
	}
	if err := s.IncrementLikes(a.ID); err != nil {
		t.Fatalf("increment likes: %v", err)
	}

	got, err := s.FindByID(a.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v, %v", got, err)
	}
	if got.Views != 3 {
		t.Errorf("views = %d, want 3", got.Views)
	}
	if got.Likes != 1 {
		t.Errorf("likes = %d, want 1", got.Likes)
	}
}

func TestArticleSetTagsReplacesSet(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)
	a := newTestArticle(t, db, author, "Article Tag Test", "article-tag-test")

	tags := NewTagStore(db)
	t.Cleanup(func() { cleanTags(t, db, "art-tag-go", "art-tag-sql", "art-tag-cache") })

	goTag, err := tags.GetOrCreate("art-tag-go")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	sqlTag, err := tags.GetOrCreate("art-tag-sql")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	cacheTag, err := tags.GetOrCreate("art-tag-cache")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	if err := s.SetTags(a.ID, []uuid.UUID{goTag.ID, sqlTag.ID}); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	got, err := s.TagsOf(a.ID)
	if err != nil {
		t.Fatalf("tags of: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tags, want 2", len(got))
	}

	// A second call replaces, never appends.
	if err := s.SetTags(a.ID, []uuid.UUID{cacheTag.ID}); err != nil {
		t.Fatalf("replace tags: %v", err)
	}
	got, err = s.TagsOf(a.ID)
	if err != nil {
		t.Fatalf("tags of: %v", err)
	}
	if len(got) != 1 || got[0].ID != cacheTag.ID {
		t.Errorf("after replace got %v", got)
	}

	// Empty set clears everything.
	if err := s.SetTags(a.ID, nil); err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	got, err = s.TagsOf(a.ID)
	if err != nil {
		t.Fatalf("tags of: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tags survived a clear: %v", got)
	}
}

func TestArticleSetRelatedSkipsSelf(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)
	a := newTestArticle(t, db, author, "Related Test A", "article-related-test-a")
	b := newTestArticle(t, db, author, "Related Test B", "article-related-test-b")

	if err := s.SetRelated(a.ID, []uuid.UUID{a.ID, b.ID}); err != nil {
		t.Fatalf("set related: %v", err)
	}

	got, err := s.RelatedOf(a.ID, 10)
	if err != nil {
		t.Fatalf("related of: %v", err)
	}
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("related = %v, want just B", got)
	}

	// Directional: B gained no edge back to A.
	back, err := s.RelatedOf(b.ID, 10)
	if err != nil {
		t.Fatalf("related of B: %v", err)
	}
	if len(back) != 0 {
		t.Error("relation leaked in the reverse direction")
	}
}

func TestArticleListFilters(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)

	published := newTestArticle(t, db, author, "Filter Published Xq", "article-filter-published")
	draft, err := s.Create(&models.Article{
		Title: "Filter Draft Xq", Slug: "article-filter-draft",
		Content: "Draft body.", AuthorID: author.ID,
		Status: models.ArticleStatusDraft,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	t.Cleanup(func() { cleanArticles(t, db, "article-filter-draft") })

	// PublishedOnly hides the draft.
	got, err := s.List(Filter{PublishedOnly: true, Search: "Filter", OrderBy: "created_at"})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	for _, a := range got {
		if a.ID == draft.ID {
			t.Error("draft leaked through PublishedOnly")
		}
	}

	// Status filter finds the draft.
	got, err = s.List(Filter{Status: models.ArticleStatusDraft, Search: "Filter Draft Xq"})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(got) != 1 || got[0].ID != draft.ID {
		t.Errorf("status filter = %v", got)
	}

	// Search matches title substrings case-insensitively.
	got, err = s.List(Filter{Search: "filter published xq"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(got) != 1 || got[0].ID != published.ID {
		t.Errorf("search = %v", got)
	}
}

func TestArticleTopStoriesOrdering(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)
	author := testAuthor(t, db)

	popular := newTestArticle(t, db, author, "Top Popular Zz", "article-top-popular")
	quiet := newTestArticle(t, db, author, "Top Quiet Zz", "article-top-quiet")

	if _, err := db.Exec(`UPDATE articles SET is_featured = true, views = 50 WHERE id = $1`, popular.ID); err != nil {
		t.Fatalf("mark featured: %v", err)
	}
	if _, err := db.Exec(`UPDATE articles SET is_featured = true, views = 5 WHERE id = $1`, quiet.ID); err != nil {
		t.Fatalf("mark featured: %v", err)
	}

	got, err := s.TopStories(100)
	if err != nil {
		t.Fatalf("top stories: %v", err)
	}

	var popIdx, quietIdx = -1, -1
	for i, a := range got {
		if a.ID == popular.ID {
			popIdx = i
		}
		if a.ID == quiet.ID {
			quietIdx = i
		}
	}
	if popIdx == -1 || quietIdx == -1 {
		t.Fatalf("featured articles missing from top stories (pop=%d quiet=%d)", popIdx, quietIdx)
	}
	if popIdx > quietIdx {
		t.Error("most-viewed article ranked below a quieter one")
	}
}
