// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Tags groups the flat-label handlers.
type Tags struct {
	tags *store.TagStore
}

// NewTags creates a new Tags handler group.
func NewTags(tags *store.TagStore) *Tags {
	return &Tags{tags: tags}
}

// List serves all tags ordered by name.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeData(w, http.StatusOK, tags)
}

type tagInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create adds a tag. Tag names are unique; duplicates conflict.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var in tagInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validateName(in.Name); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.tags.Create(&models.Tag{Name: in.Name, Description: in.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// Get serves one tag by ID.
func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tag == nil {
		writeError(w, apperr.NotFound("tag"))
		return
	}
	writeData(w, http.StatusOK, tag)
}

// Update renames a tag or changes its description.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tag == nil {
		writeError(w, apperr.NotFound("tag"))
		return
	}

	var in tagInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validateName(in.Name); err != nil {
		writeError(w, err)
		return
	}

	tag.Name = in.Name
	tag.Description = in.Description
	if err := h.tags.Update(tag); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tag)
}

// Delete removes a tag. Article associations are removed by the schema.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tag == nil {
		writeError(w, apperr.NotFound("tag"))
		return
	}

	if err := h.tags.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
