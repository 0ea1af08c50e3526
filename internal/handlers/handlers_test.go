// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go exercises the category and article handlers against a
// real database, covering the two-tier taxonomy rules and the optional
// article category. Tests are skipped if PostgreSQL is not available.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/session"
	"inkpress/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv bundles the stores and handler groups against one database
// connection, plus a staff session backed by a real user row.
type testEnv struct {
	db         *sql.DB
	categories *store.CategoryStore
	articles   *store.ArticleStore
	catHandler *Categories
	artHandler *Articles
	staff      *session.Data
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	categoryStore := store.NewCategoryStore(db)
	articleStore := store.NewArticleStore(db)
	tagStore := store.NewTagStore(db)
	commentStore := store.NewCommentStore(db)
	imageStore := store.NewImageStore(db)

	user, err := store.NewUserStore(db).Create(
		"handlers-test-"+uuid.NewString()+"@example.com",
		"handlers-test-pass", "Handlers Test", models.RoleStaff,
	)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	return &testEnv{
		db:         db,
		categories: categoryStore,
		articles:   articleStore,
		catHandler: NewCategories(categoryStore, articleStore, nil),
		artHandler: NewArticles(articleStore, categoryStore, tagStore, commentStore, imageStore, nil, nil),
		staff: &session.Data{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			TwoFADone:   true,
		},
	}
}

// makeCategory inserts a category directly through the store, bypassing
// the handler's own tier checks so tests control the starting taxonomy.
func makeCategory(t *testing.T, env *testEnv, name string, parentID *uuid.UUID) *models.Category {
	t.Helper()

	c, err := env.categories.Create(&models.Category{
		Name:     name,
		Slug:     "handlers-test-" + uuid.NewString()[:8],
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() {
		env.db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// doJSON invokes a handler directly with a JSON body, an optional
// session, and an optional {id} route parameter.
func doJSON(t *testing.T, h http.HandlerFunc, method, id, body string, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if sess != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, sess))
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCategoryCreateRejectsSubcategoryParent(t *testing.T) {
	env := newTestEnv(t)
	root := makeCategory(t, env, "Handlers Root", nil)
	sub := makeCategory(t, env, "Handlers Sub", &root.ID)

	t.Cleanup(func() {
		env.db.Exec("DELETE FROM categories WHERE name = $1", "Handlers Deep Child")
	})

	body := `{"name":"Handlers Deep Child","parent_id":"` + sub.ID.String() + `"}`
	rec := doJSON(t, env.catHandler.Create, http.MethodPost, "", body, env.staff)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "parent must be a top-level category") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestCategoryUpdateRejectsReparentWithChildren(t *testing.T) {
	env := newTestEnv(t)
	root := makeCategory(t, env, "Handlers Parent", nil)
	makeCategory(t, env, "Handlers Child", &root.ID)
	other := makeCategory(t, env, "Handlers Other Root", nil)

	body := `{"name":"Handlers Parent","parent_id":"` + other.ID.String() + `"}`
	rec := doJSON(t, env.catHandler.Update, http.MethodPut, root.ID.String(), body, env.staff)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "category with subcategories cannot become a subcategory") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}

	// The row must be untouched.
	after, err := env.categories.FindByID(root.ID)
	if err != nil || after == nil {
		t.Fatalf("reload category: %v", err)
	}
	if after.ParentID != nil {
		t.Errorf("category was reparented despite the rejection")
	}
}

func TestCategoryCreateDuplicateNameSuffixesSlug(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() {
		env.db.Exec("DELETE FROM categories WHERE slug LIKE 'handlers-duplicate%'")
	})

	body := `{"name":"Handlers Duplicate"}`
	first := doJSON(t, env.catHandler.Create, http.MethodPost, "", body, env.staff)
	if first.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d: %s", first.Code, first.Body.String())
	}
	if !strings.Contains(first.Body.String(), `"slug":"handlers-duplicate"`) {
		t.Errorf("unexpected first slug: %s", first.Body.String())
	}

	second := doJSON(t, env.catHandler.Create, http.MethodPost, "", body, env.staff)
	if second.Code != http.StatusCreated {
		t.Fatalf("second create: expected 201, got %d: %s", second.Code, second.Body.String())
	}
	if !strings.Contains(second.Body.String(), `"slug":"handlers-duplicate-1"`) {
		t.Errorf("expected suffixed slug, got: %s", second.Body.String())
	}
}

func TestArticleCreateRejectsRootCategory(t *testing.T) {
	env := newTestEnv(t)
	root := makeCategory(t, env, "Handlers Article Root", nil)

	body := `{"title":"Misplaced","content":"Body.","category_id":"` + root.ID.String() + `"}`
	rec := doJSON(t, env.artHandler.Create, http.MethodPost, "", body, env.staff)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "articles attach to subcategories, not top-level categories") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestArticleCreateWithoutCategory(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() {
		env.db.Exec("DELETE FROM articles WHERE slug LIKE 'handlers-uncategorized%'")
	})

	body := `{"title":"Handlers Uncategorized","content":"No category at all."}`
	rec := doJSON(t, env.artHandler.Create, http.MethodPost, "", body, env.staff)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"category":null`) {
		t.Errorf("expected null category, got: %s", rec.Body.String())
	}
}

func TestArticleUpdateClearsCategory(t *testing.T) {
	env := newTestEnv(t)
	root := makeCategory(t, env, "Handlers Update Root", nil)
	sub := makeCategory(t, env, "Handlers Update Sub", &root.ID)
	t.Cleanup(func() {
		env.db.Exec("DELETE FROM articles WHERE slug LIKE 'handlers-categorized%'")
	})

	create := `{"title":"Handlers Categorized","content":"Body.","category_id":"` + sub.ID.String() + `"}`
	created := doJSON(t, env.artHandler.Create, http.MethodPost, "", create, env.staff)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", created.Code, created.Body.String())
	}
	var id string
	row := env.db.QueryRow("SELECT id FROM articles WHERE slug = 'handlers-categorized'")
	if err := row.Scan(&id); err != nil {
		t.Fatalf("find created article: %v", err)
	}

	// An update that omits category_id detaches the article.
	update := `{"title":"Handlers Categorized","content":"Body."}`
	rec := doJSON(t, env.artHandler.Update, http.MethodPut, id, update, env.staff)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"category":null`) {
		t.Errorf("expected null category after update, got: %s", rec.Body.String())
	}
}

func TestCategoryListDepthZeroServesRootsOnly(t *testing.T) {
	env := newTestEnv(t)
	root := makeCategory(t, env, "Handlers Depth Root", nil)
	sub := makeCategory(t, env, "Handlers Depth Sub", &root.ID)

	req := httptest.NewRequest(http.MethodGet, "/?depth=0", nil)
	rec := httptest.NewRecorder()
	env.catHandler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, root.ID.String()) {
		t.Errorf("root category missing from depth=0 listing")
	}
	if strings.Contains(body, sub.ID.String()) {
		t.Errorf("subcategory leaked into depth=0 listing")
	}
}

func TestImageRebuildThumbWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	images := NewImages(store.NewImageStore(env.db), env.articles, nil)

	rec := doJSON(t, images.RebuildThumb, http.MethodPost, uuid.NewString(), "", env.staff)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "object storage is not configured") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}
