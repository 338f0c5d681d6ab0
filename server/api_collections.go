package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Admin CRUD + reorder for the three ordered collections, and their public
// read-only counterparts. Mechanics are identical across kinds; only the
// field sets differ.

func (a *api) handleAdminListProjects(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListProjects(r.Context())
	if err != nil {
		a.log.Error("list projects", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Href        string   `json:"href"`
		Image       string   `json:"image"`
		Tags        []string `json:"tags"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	p, err := a.store.CreateProject(r.Context(), strings.TrimSpace(req.Title), req.Description, req.Href, req.Image, req.Tags)
	if err != nil {
		a.log.Error("create project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, p)
}

func (a *api) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Href        *string   `json:"href"`
		Image       *string   `json:"image"`
		Tags        *[]string `json:"tags"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, 400, "title cannot be empty")
		return
	}
	p, err := a.store.UpdateProject(r.Context(), id, req.Title, req.Description, req.Href, req.Image, req.Tags)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("update project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, p)
}

func (a *api) handleAdminListSkills(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListSkills(r.Context())
	if err != nil {
		a.log.Error("list skills", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IconName string `json:"icon_name"`
		Category string `json:"category"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	sk, err := a.store.CreateSkill(r.Context(), strings.TrimSpace(req.Name), req.IconName, req.Category)
	if err != nil {
		a.log.Error("create skill", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, sk)
}

func (a *api) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Name     *string `json:"name"`
		IconName *string `json:"icon_name"`
		Category *string `json:"category"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	sk, err := a.store.UpdateSkill(r.Context(), id, req.Name, req.IconName, req.Category)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("update skill", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, sk)
}

func (a *api) handleAdminListCertifications(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListCertifications(r.Context())
	if err != nil {
		a.log.Error("list certifications", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateCertification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Href  string `json:"href"`
		Image string `json:"image"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.CreateCertification(r.Context(), strings.TrimSpace(req.Name), req.Href, req.Image)
	if err != nil {
		a.log.Error("create certification", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, c)
}

func (a *api) handleUpdateCertification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Name  *string `json:"name"`
		Href  *string `json:"href"`
		Image *string `json:"image"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	c, err := a.store.UpdateCertification(r.Context(), id, req.Name, req.Href, req.Image)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("update certification", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, c)
}

// handleDeleteItem deletes one row of the given collection.
func (a *api) handleDeleteItem(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.store.DeleteItem(r.Context(), kind, r.PathValue("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, 404, "not found")
				return
			}
			a.log.Error("delete "+kind, "err", err)
			writeError(w, 500, "internal error")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
	}
}

// handleReorder takes the full item sequence in desired order and rewrites
// order_index to 0..N-1. The client sends whole items; only ids matter here,
// so each entry is decoded leniently.
func (a *api) handleReorder(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := readJSON(w, r, &req); err != nil || len(req.Items) == 0 {
			writeError(w, 400, "invalid payload")
			return
		}
		ids := make([]string, 0, len(req.Items))
		for _, raw := range req.Items {
			var it struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &it); err != nil || it.ID == "" {
				writeError(w, 400, "invalid payload")
				return
			}
			ids = append(ids, it.ID)
		}
		if err := a.store.Reorder(r.Context(), kind, ids); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, 404, "not found")
				return
			}
			a.log.Error("reorder "+kind, "err", err)
			writeError(w, 500, "internal error")
			return
		}
		writeJSON(w, 200, map[string]any{"success": true})
	}
}

// Public read façade: same lists, no session gate.

func (a *api) handlePublicProjects(w http.ResponseWriter, r *http.Request) {
	a.handleAdminListProjects(w, r)
}

func (a *api) handlePublicSkills(w http.ResponseWriter, r *http.Request) {
	a.handleAdminListSkills(w, r)
}

func (a *api) handlePublicCertifications(w http.ResponseWriter, r *http.Request) {
	a.handleAdminListCertifications(w, r)
}
