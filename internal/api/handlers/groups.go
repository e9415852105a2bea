package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/internal/service"
)

const groupListPath = "/group"

// GroupHandler обрабатывает страницы групп
type GroupHandler struct {
	BaseHandler
	groups *service.GroupService
}

// NewGroupHandler создает новый экземпляр GroupHandler
func NewGroupHandler(base BaseHandler, groups *service.GroupService) *GroupHandler {
	return &GroupHandler{
		BaseHandler: base,
		groups:      groups,
	}
}

// Index отрисовывает страницу списка групп
func (h *GroupHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.GetPage(r)

	data, err := h.groups.List(r.Context(), page)
	if err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	if last, overflow := data.PageOverflow(page); overflow {
		h.RedirectToPage(w, r, groupListPath, last)
		return
	}

	h.Render(w, r, http.StatusOK, PageGroups, &PageData{Title: "Groups", Data: data})
}

// CreatePage отрисовывает пустую форму группы
func (h *GroupHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Create group", groupListPath+"/create", &domain.GroupCreateRequest{}, nil)
}

// Create создает группу
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ms, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	action := groupListPath + "/create"
	if !ms.IsValid() {
		h.renderForm(w, r, "Create group", action, req, ms)
		return
	}

	if _, err := h.groups.Create(r.Context(), *req); err != nil {
		h.handleMutationError(w, r, err, "Create group", action, req, ms)
		return
	}
	h.Redirect(w, r, groupListPath)
}

// EditPage отрисовывает форму редактирования группы
func (h *GroupHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	group, err := h.groups.Get(r.Context(), id)
	if err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	h.renderForm(w, r, "Edit group", editGroupPath(id), group, nil)
}

// Edit сохраняет изменения группы
func (h *GroupHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	req, ms, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if !ms.IsValid() {
		h.renderForm(w, r, "Edit group", editGroupPath(id), req, ms)
		return
	}

	if err := h.groups.Update(r.Context(), id, *req); err != nil {
		h.handleMutationError(w, r, err, "Edit group", editGroupPath(id), req, ms)
		return
	}
	h.Redirect(w, r, groupListPath)
}

// Delete удаляет группу и отвечает кодом статуса
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondDeleteError(w, r, err)
		return
	}

	if err := h.groups.Delete(r.Context(), id); err != nil {
		h.RespondDeleteError(w, r, err)
		return
	}
	h.RespondStatus(w, r, http.StatusOK)
}

func (h *GroupHandler) parseForm(w http.ResponseWriter, r *http.Request) (*domain.GroupCreateRequest, *ModelState, bool) {
	if err := r.ParseForm(); err != nil {
		h.RenderError(w, r, err)
		return nil, nil, false
	}

	req := &domain.GroupCreateRequest{Name: r.PostFormValue("Name")}
	ms := NewModelState()
	if err := h.ValidateForm(req, ms); err != nil {
		h.RenderError(w, r, err)
		return nil, nil, false
	}
	return req, ms, true
}

func (h *GroupHandler) handleMutationError(w http.ResponseWriter, r *http.Request, err error, title, action string, req *domain.GroupCreateRequest, ms *ModelState) {
	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		ms.AddValidationError(valErr)
		h.renderForm(w, r, title, action, req, ms)
		return
	}
	h.HandleFetchError(w, r, err)
}

func (h *GroupHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, form *domain.GroupCreateRequest, ms *ModelState) {
	h.Render(w, r, http.StatusOK, PageGroupForm, &PageData{
		Title:  title,
		Action: action,
		Form:   form,
		Errors: ms,
	})
}

func editGroupPath(id int) string {
	return fmt.Sprintf("%s/edit/%d", groupListPath, id)
}
