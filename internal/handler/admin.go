// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/scheduler"
	"github.com/olegiv/folio/internal/util"
)

// ProjectStore reads and mutates projects on behalf of the admin.
type ProjectStore interface {
	List(ctx context.Context, vis repository.Visibility) ([]model.Project, error)
	Get(ctx context.Context, id int64, vis repository.Visibility) (model.Project, error)
	Create(ctx context.Context, p model.Project, token string) (model.Project, error)
	Update(ctx context.Context, id int64, p model.Project, token string) error
	Delete(ctx context.Context, id int64, token string) error
}

// AdminSession gives access to the signed-in admin's token.
type AdminSession interface {
	Token(ctx context.Context) string
	Logout(ctx context.Context)
}

// JobRunner lists and triggers background jobs.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(name string) error
}

// AdminHandler handles the admin dashboard and project editing.
type AdminHandler struct {
	renderer *render.Renderer
	projects ProjectStore
	session  AdminSession
	jobs     JobRunner
}

// NewAdminHandler creates a new AdminHandler. jobs may be nil.
func NewAdminHandler(renderer *render.Renderer, projects ProjectStore, session AdminSession, jobs JobRunner) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		projects: projects,
		session:  session,
		jobs:     jobs,
	}
}

// DashboardData holds data for the admin dashboard.
type DashboardData struct {
	Projects []model.Project
	Counts   map[string]int
	Jobs     []scheduler.JobInfo
	Error    string
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := DashboardData{Counts: make(map[string]int)}

	projects, err := h.projects.List(r.Context(), repository.VisibilityAdmin)
	if err != nil {
		slog.Warn("failed to load projects", "category", model.EventCategoryRemote, "error", err)
		data.Error = repository.Message(err)
	}
	data.Projects = projects
	for _, p := range projects {
		data.Counts[p.Status]++
	}
	if h.jobs != nil {
		data.Jobs = h.jobs.Jobs()
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

// Refresh handles POST /admin/refresh and reloads the project cache.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		flashError(w, r, h.renderer, RouteAdmin, "Background jobs are not running")
		return
	}
	err := h.jobs.Trigger(scheduler.JobRefreshProjects)
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		flashError(w, r, h.renderer, RouteAdmin, "Scheduled refresh is disabled")
		return
	case err != nil:
		flashError(w, r, h.renderer, RouteAdmin, repository.Message(err))
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdmin, "Project cache refreshed")
}

// BlockField is one row of the block editor.
type BlockField struct {
	Index   int
	ID      string
	Type    model.BlockType
	Content string
}

// ProjectForm holds data for the project form.
type ProjectForm struct {
	Project      model.Project
	Technologies string
	Tags         string
	Blocks       []BlockField
	Errors       map[string]string
	IsNew        bool
	Action       string
}

func newProjectForm(p model.Project, isNew bool) ProjectForm {
	f := ProjectForm{
		Project:      p,
		Technologies: p.Technologies.String(),
		Tags:         strings.Join(p.Tags, ", "),
		Errors:       make(map[string]string),
		IsNew:        isNew,
		Action:       "/admin/projects/" + strconv.FormatInt(p.ID, 10),
	}
	if isNew {
		f.Action = "/admin/projects"
	}
	for i, b := range p.Blocks {
		f.Blocks = append(f.Blocks, BlockField{
			Index:   i,
			ID:      b.ID,
			Type:    b.Type,
			Content: blockFormContent(b),
		})
	}
	return f
}

// blockFormContent flattens image URL lists to one URL per line.
func blockFormContent(b model.Block) string {
	switch b.Type {
	case model.BlockImage:
		return strings.Join(b.ImageURLs(), "\n")
	case model.BlockGallery:
		return strings.Join(b.GalleryURLs(), "\n")
	}
	return b.Content
}

// New handles GET /admin/projects/new.
func (h *AdminHandler) New(w http.ResponseWriter, r *http.Request) {
	p := model.Project{
		Status: model.ProjectStatusDraft,
		Blocks: []model.Block{{ID: uuid.NewString(), Type: model.BlockText}},
	}
	h.renderForm(w, r, newProjectForm(p, true), "")
}

// Create handles POST /admin/projects.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/admin/projects/new") {
		return
	}

	p := projectFromForm(r.PostForm)
	if op := r.PostFormValue("op"); op != "" {
		p.Blocks = applyBlockOp(p.Blocks, op)
		h.renderForm(w, r, newProjectForm(p, true), "")
		return
	}

	form := newProjectForm(p, true)
	if form.Errors = validateProject(p); len(form.Errors) > 0 {
		h.renderForm(w, r, form, "")
		return
	}

	created, err := h.projects.Create(r.Context(), p, h.session.Token(r.Context()))
	if err != nil {
		h.mutationFailed(w, r, form, "create", err)
		return
	}

	slog.Info("project created", "category", model.EventCategoryProject, "project_id", created.ID, "slug", created.Slug)
	flashSuccess(w, r, h.renderer, RouteAdmin, fmt.Sprintf("Project %q created", created.Title))
}

// Edit handles GET /admin/projects/{id}.
func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	p, err := h.projects.Get(r.Context(), id, repository.VisibilityAdmin)
	if err != nil {
		slog.Warn("failed to load project", "category", model.EventCategoryRemote, "project_id", id, "error", err)
		flashError(w, r, h.renderer, RouteAdmin, repository.Message(err))
		return
	}
	if len(p.Blocks) == 0 {
		p.Blocks = []model.Block{{ID: uuid.NewString(), Type: model.BlockText}}
	}

	h.renderForm(w, r, newProjectForm(p, false), "")
}

// Update handles POST /admin/projects/{id}. Block editor operations
// re-render the form without saving.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}
	editURL := "/admin/projects/" + strconv.FormatInt(id, 10)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	p := projectFromForm(r.PostForm)
	p.ID = id
	if op := r.PostFormValue("op"); op != "" {
		p.Blocks = applyBlockOp(p.Blocks, op)
		h.renderForm(w, r, newProjectForm(p, false), "")
		return
	}

	form := newProjectForm(p, false)
	if form.Errors = validateProject(p); len(form.Errors) > 0 {
		h.renderForm(w, r, form, "")
		return
	}

	stored, err := h.projects.Get(r.Context(), id, repository.VisibilityAdmin)
	if err != nil {
		h.mutationFailed(w, r, form, "update", err)
		return
	}
	keepStoredFields(&p, stored)

	if err := h.projects.Update(r.Context(), id, p, h.session.Token(r.Context())); err != nil {
		h.mutationFailed(w, r, form, "update", err)
		return
	}

	slog.Info("project updated", "category", model.EventCategoryProject, "project_id", id)
	flashSuccess(w, r, h.renderer, editURL, "Project saved")
}

// Delete handles POST /admin/projects/{id}/delete.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), id, h.session.Token(r.Context())); err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		slog.Warn("failed to delete project", "category", model.EventCategoryProject, "project_id", id, "error", err)
		flashError(w, r, h.renderer, RouteAdmin, repository.Message(err))
		return
	}

	slog.Info("project deleted", "category", model.EventCategoryProject, "project_id", id)
	flashSuccess(w, r, h.renderer, RouteAdmin, "Project deleted")
}

func (h *AdminHandler) projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid project ID")
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, form ProjectForm, flash string) {
	title := "Edit Project"
	if form.IsNew {
		title = "New Project"
	}
	data := render.TemplateData{Title: title, Data: form}
	if flash != "" {
		data.Flash = flash
		data.FlashType = flashTypeError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/project_form", data)
}

// mutationFailed keeps the submitted form on screen with the error, unless
// the token was rejected and the admin has to sign in again.
func (h *AdminHandler) mutationFailed(w http.ResponseWriter, r *http.Request, form ProjectForm, action string, err error) {
	if h.sessionExpired(w, r, err) {
		return
	}
	slog.Warn("failed to "+action+" project", "category", model.EventCategoryProject, "project_id", form.Project.ID, "error", err)
	h.renderForm(w, r, form, repository.Message(err))
}

// sessionExpired signs out and redirects to the login page when err says the
// token is missing or no longer accepted.
func (h *AdminHandler) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, repository.ErrMissingToken) && !errors.Is(err, repository.ErrUnauthorized) {
		return false
	}
	slog.Warn("admin token rejected", "category", model.EventCategoryAuth, "error", err)
	h.session.Logout(r.Context())
	flashError(w, r, h.renderer, RouteAdminLogin, repository.Message(err))
	return true
}

// projectFromForm reads a project and its block list from submitted values.
// Blocks arrive as parallel block_id, block_type and block_content fields.
func projectFromForm(form url.Values) model.Project {
	p := model.Project{
		Title:        strings.TrimSpace(form.Get("title")),
		Slug:         strings.TrimSpace(form.Get("slug")),
		Description:  strings.TrimSpace(form.Get("description")),
		Technologies: model.ParseTechnologies(form.Get("technologies")),
		Status:       form.Get("status"),
		ImageURL:     strings.TrimSpace(form.Get("image_url")),
		DemoURL:      strings.TrimSpace(form.Get("demo_url")),
		GithubURL:    strings.TrimSpace(form.Get("github_url")),
		Featured:     form.Get("featured") != "",
		Tags:         splitList(form.Get("tags")),
	}
	if p.Status == "" {
		p.Status = model.ProjectStatusDraft
	}

	ids := form["block_id"]
	types := form["block_type"]
	contents := form["block_content"]
	for i, t := range types {
		b := model.Block{Type: model.BlockType(t)}
		if i < len(ids) {
			b.ID = ids[i]
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if i < len(contents) {
			setBlockContent(&b, contents[i])
		}
		p.Blocks = append(p.Blocks, b)
	}
	return p
}

// keepStoredFields copies what the form does not edit from the stored
// project: the media gallery, and block metadata matched by block ID.
func keepStoredFields(p *model.Project, stored model.Project) {
	p.Media = stored.Media

	metadata := make(map[string]map[string]any, len(stored.Blocks))
	for _, b := range stored.Blocks {
		if b.Metadata != nil {
			metadata[b.ID] = b.Metadata
		}
	}
	for i := range p.Blocks {
		if m, ok := metadata[p.Blocks[i].ID]; ok && p.Blocks[i].Metadata == nil {
			p.Blocks[i].Metadata = m
		}
	}
}

// setBlockContent stores content on b. Image blocks with several URLs and
// galleries keep their URLs in Images. The form holds one URL per line.
func setBlockContent(b *model.Block, content string) {
	switch b.Type {
	case model.BlockImage, model.BlockGallery:
		urls := model.SplitURLLines(content)
		if len(urls) > 1 || (b.Type == model.BlockGallery && len(urls) > 0) {
			b.Images = urls
			return
		}
		b.Content = strings.Join(urls, "")
	default:
		b.Content = content
	}
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// applyBlockOp applies an editor operation: add:<i>:<type>, remove:<i>,
// up:<i> or down:<i>. Malformed operations leave the blocks unchanged.
func applyBlockOp(blocks []model.Block, op string) []model.Block {
	parts := strings.Split(op, ":")
	if len(parts) < 2 {
		return blocks
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil {
		return blocks
	}

	switch parts[0] {
	case "add":
		if len(parts) != 3 {
			return blocks
		}
		t := model.BlockType(parts[2])
		if !t.Known() {
			return blocks
		}
		return model.InsertBlockAfter(blocks, i, t, uuid.NewString())
	case "remove":
		return model.RemoveBlock(blocks, i)
	case "up":
		return model.MoveBlock(blocks, i, model.Up)
	case "down":
		return model.MoveBlock(blocks, i, model.Down)
	}
	return blocks
}

// validateProject returns field errors keyed by form field name.
func validateProject(p model.Project) map[string]string {
	errs := make(map[string]string)

	if p.Title == "" {
		errs["title"] = "Title is required"
	} else if len(p.Title) > 200 {
		errs["title"] = "Title must be at most 200 characters"
	}
	if p.Slug != "" && !util.IsValidSlug(p.Slug) {
		errs["slug"] = "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	if !model.ValidStatus(p.Status) {
		errs["status"] = "Invalid status"
	}
	for field, v := range map[string]string{
		"image_url":  p.ImageURL,
		"demo_url":   p.DemoURL,
		"github_url": p.GithubURL,
	} {
		if v != "" && !isHTTPURL(v) {
			errs[field] = "Must be an http or https URL"
		}
	}
	for _, b := range p.Blocks {
		if !b.Type.Known() {
			errs["blocks"] = fmt.Sprintf("Unknown block type %q", b.Type)
			break
		}
	}
	return errs
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
