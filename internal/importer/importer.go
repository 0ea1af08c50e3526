// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer loads Markdown articles with YAML front matter into
// the database. Categories and tags named in the front matter are
// created on demand; the article is imported as published.
package importer

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// frontMatterDelim separates the YAML header from the Markdown body.
var frontMatterDelim = []byte("---")

// FrontMatter is the YAML header of an importable article.
type FrontMatter struct {
	Title           string   `yaml:"title"`
	Slug            string   `yaml:"slug"`
	Excerpt         string   `yaml:"excerpt"`
	SEOTitle        string   `yaml:"seo_title"`
	MetaDescription string   `yaml:"meta_description"`
	Category        string   `yaml:"category"`
	ParentCategory  string   `yaml:"parent_category"`
	Tags            []string `yaml:"tags"`
}

// Document is a parsed import file: the front matter plus the Markdown body.
type Document struct {
	Meta FrontMatter
	Body string
}

// Parse splits a Markdown file into front matter and body. The file must
// open with a "---" fence; everything up to the closing fence is YAML.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff\n\r")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, fmt.Errorf("importer: file does not start with front matter")
	}

	rest := trimmed[len(frontMatterDelim):]
	idx := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if idx < 0 {
		return nil, fmt.Errorf("importer: unterminated front matter")
	}

	header := rest[:idx]
	body := rest[idx+1+len(frontMatterDelim):]
	body = bytes.TrimPrefix(body, []byte("\n"))

	var meta FrontMatter
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return nil, fmt.Errorf("importer: parse front matter: %w", err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		return nil, fmt.Errorf("importer: front matter is missing a title")
	}
	if strings.TrimSpace(meta.Category) == "" {
		return nil, fmt.Errorf("importer: front matter is missing a category")
	}

	return &Document{Meta: meta, Body: string(body)}, nil
}

// Importer wires the stores needed to land an import.
type Importer struct {
	articles   *store.ArticleStore
	categories *store.CategoryStore
	tags       *store.TagStore
	users      *store.UserStore
}

// New creates an Importer.
func New(articles *store.ArticleStore, categories *store.CategoryStore, tags *store.TagStore, users *store.UserStore) *Importer {
	return &Importer{articles: articles, categories: categories, tags: tags, users: users}
}

// ImportFile reads and imports one Markdown file, returning the created
// article.
func (im *Importer) ImportFile(path string) (*models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return im.Import(doc)
}

// Import lands a parsed document: categories and tags are resolved or
// created, the body stays Markdown, and the article goes live published.
func (im *Importer) Import(doc *Document) (*models.Article, error) {
	category, err := im.resolveCategory(doc.Meta.ParentCategory, doc.Meta.Category)
	if err != nil {
		return nil, err
	}

	author, err := im.users.FirstAdmin()
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("importer: no admin account to author the import")
	}

	excerpt := doc.Meta.Excerpt
	if excerpt == "" {
		excerpt = defaultExcerpt(doc.Body)
	}

	a := &models.Article{
		Title:       doc.Meta.Title,
		Content:     doc.Body,
		Excerpt:     excerpt,
		CategoryID:  &category.ID,
		AuthorID:    author.ID,
		Status:      models.ArticleStatusPublished,
		IsPublished: true,
		ReadingTime: markdown.ReadingTime(doc.Body),
	}
	if doc.Meta.SEOTitle != "" {
		a.SEOTitle = &doc.Meta.SEOTitle
	}
	if doc.Meta.MetaDescription != "" {
		a.MetaDescription = &doc.Meta.MetaDescription
	}

	base := doc.Meta.Slug
	if base == "" {
		base = slug.Generate(doc.Meta.Title)
	}
	unique, err := slug.MakeUnique(base, im.articles.SlugExists)
	if err != nil {
		return nil, err
	}
	a.Slug = unique

	created, err := im.articles.Create(a)
	if err != nil {
		return nil, err
	}

	if len(doc.Meta.Tags) > 0 {
		var tagIDs []uuid.UUID
		for _, name := range doc.Meta.Tags {
			tag, err := im.tags.GetOrCreate(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			tagIDs = append(tagIDs, tag.ID)
		}
		if err := im.articles.SetTags(created.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// resolveCategory finds or creates the article's category. With a parent
// named, the parent root is ensured first and the category lands under
// it; a pre-existing orphan category is adopted by the parent, matching
// how repeated imports converge on one taxonomy.
func (im *Importer) resolveCategory(parentName, name string) (*models.Category, error) {
	var parent *models.Category
	if parentName != "" {
		var err error
		parent, err = im.getOrCreateCategory(parentName, nil)
		if err != nil {
			return nil, err
		}
		if !parent.IsRoot() {
			return nil, fmt.Errorf("importer: parent category %q is itself a subcategory", parentName)
		}
	}

	category, err := im.getOrCreateCategory(name, parent)
	if err != nil {
		return nil, err
	}

	if parent != nil && category.ParentID == nil {
		category.ParentID = &parent.ID
		if err := im.categories.Update(category); err != nil {
			return nil, err
		}
	}
	return category, nil
}

// getOrCreateCategory looks a category up by the slug of its name,
// creating it (optionally under parent) when absent.
func (im *Importer) getOrCreateCategory(name string, parent *models.Category) (*models.Category, error) {
	s := slug.Generate(name)
	existing, err := im.categories.FindBySlug(s)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	c := &models.Category{Name: name, Slug: s}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	return im.categories.Create(c)
}

// defaultExcerpt takes the opening of the body, respecting rune
// boundaries.
func defaultExcerpt(body string) string {
	const limit = 150
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
