package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/internal/service"
)

const studentListPath = "/student"

// StudentHandler обрабатывает страницы студентов
type StudentHandler struct {
	BaseHandler
	students *service.StudentService
	lookup   *service.LookupService
}

// NewStudentHandler создает новый экземпляр StudentHandler
func NewStudentHandler(base BaseHandler, students *service.StudentService, lookup *service.LookupService) *StudentHandler {
	return &StudentHandler{
		BaseHandler: base,
		students:    students,
		lookup:      lookup,
	}
}

// Index отрисовывает страницу списка студентов
func (h *StudentHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.GetPage(r)

	data, err := h.students.List(r.Context(), page)
	if err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	if last, overflow := data.PageOverflow(page); overflow {
		h.RedirectToPage(w, r, studentListPath, last)
		return
	}

	h.Render(w, r, http.StatusOK, PageStudents, &PageData{Title: "Students", Data: data})
}

// CreatePage отрисовывает пустую форму студента
func (h *StudentHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	groups, err := h.lookup.Groups(r.Context())
	if err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	h.Render(w, r, http.StatusOK, PageStudentForm, &PageData{
		Title:  "Create student",
		Action: studentListPath + "/create",
		Form:   &domain.StudentCreateRequest{},
		Groups: groups,
	})
}

// Create отправляет форму нового студента
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	page := &PageData{Title: "Create student", Action: studentListPath + "/create"}

	req, ms, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if ms.IsValid() {
		_, err := h.students.Create(r.Context(), req)
		if err == nil {
			h.Redirect(w, r, studentListPath)
			return
		}
		if !h.collectMutationError(w, r, err, ms) {
			return
		}
	}

	h.renderFormWithGroups(w, r, page, req, ms)
}

// EditPage отрисовывает форму редактирования студента
func (h *StudentHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	var (
		student *domain.StudentGetResponse
		groups  []domain.GroupListItemGetResponse
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		student, err = h.students.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = h.lookup.Groups(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	h.Render(w, r, http.StatusOK, PageStudentForm, &PageData{
		Title:    "Edit student",
		Action:   editStudentPath(id),
		Form:     domain.StudentCreateRequestFrom(student),
		Groups:   groups,
		FileName: student.FileName,
	})
}

// Edit отправляет измененную форму студента
func (h *StudentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	page := &PageData{Title: "Edit student", Action: editStudentPath(id)}

	req, ms, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if ms.IsValid() {
		err := h.students.Update(r.Context(), id, req)
		if err == nil {
			h.Redirect(w, r, studentListPath)
			return
		}
		if !h.collectMutationError(w, r, err, ms) {
			return
		}
	}

	h.renderFormWithGroups(w, r, page, req, ms)
}

// Delete удаляет студента и возвращает к списку
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.GetIDParam(r)
	if err != nil {
		h.RespondDeleteError(w, r, err)
		return
	}

	if err := h.students.Delete(r.Context(), id); err != nil {
		h.RespondDeleteError(w, r, err)
		return
	}
	h.Redirect(w, r, studentListPath)
}

// collectMutationError переносит ошибку API в форму. false означает, что ответ уже отправлен
func (h *StudentHandler) collectMutationError(w http.ResponseWriter, r *http.Request, err error, ms *ModelState) bool {
	var valErr *client.ValidationError
	var reqErr *client.RequestError
	switch {
	case errors.As(err, &valErr):
		ms.AddValidationError(valErr)
	case client.IsUnauthorized(err):
		h.RedirectToLogin(w, r)
		return false
	case errors.As(err, &reqErr):
		ms.AddError("", reqErr.Message)
	default:
		h.RenderError(w, r, err)
		return false
	}
	return true
}

func (h *StudentHandler) renderFormWithGroups(w http.ResponseWriter, r *http.Request, page *PageData, req *domain.StudentCreateRequest, ms *ModelState) {
	groups, err := h.lookup.Groups(r.Context())
	if err != nil {
		h.HandleFetchError(w, r, err)
		return
	}

	page.Form = req
	page.Errors = ms
	page.Groups = groups
	h.Render(w, r, http.StatusOK, PageStudentForm, page)
}

// parseForm разбирает multipart-форму студента и проверяет ее
func (h *StudentHandler) parseForm(w http.ResponseWriter, r *http.Request) (*domain.StudentCreateRequest, *ModelState, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ms := NewModelState()
			ms.AddError("File", fmt.Sprintf("File must not exceed %d bytes", h.MaxUploadSize))
			return &domain.StudentCreateRequest{}, ms, true
		}
		h.RenderError(w, r, err)
		return nil, nil, false
	}

	ms := NewModelState()
	req := &domain.StudentCreateRequest{
		FullName: strings.TrimSpace(r.FormValue("FullName")),
	}

	if v := r.FormValue("GroupId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			ms.AddError("GroupId", "Invalid group")
		}
		req.GroupID = id
	}
	if v := r.FormValue("Point"); v != "" {
		point, err := strconv.ParseFloat(v, 64)
		if err != nil {
			ms.AddError("Point", "Must be a number")
		}
		req.Point = point
	}
	if v := r.FormValue("BirthDate"); v != "" {
		date, err := time.Parse(domain.InputDateLayout, v)
		if err != nil {
			ms.AddError("BirthDate", "Invalid date")
		}
		req.BirthDate = date
	}
	if file, header, err := r.FormFile("File"); err == nil {
		_ = file.Close()
		req.File = uploadFrom(header)
	}

	if err := h.ValidateForm(req, ms); err != nil {
		h.RenderError(w, r, err)
		return nil, nil, false
	}
	return req, ms, true
}

func uploadFrom(header *multipart.FileHeader) *domain.FileUpload {
	return &domain.FileUpload{
		Filename: header.Filename,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func editStudentPath(id int) string {
	return fmt.Sprintf("%s/edit/%d", studentListPath, id)
}
