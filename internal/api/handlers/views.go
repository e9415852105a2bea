package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/nurlyy/course_ui/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Страницы, которые умеет отрисовывать Views
const (
	PageHome        = "home"
	PageError       = "error"
	PageLogin       = "login"
	PageGroups      = "groups"
	PageGroupForm   = "group_form"
	PageStudents    = "students"
	PageStudentForm = "student_form"
)

var pages = []string{
	PageHome, PageError, PageLogin,
	PageGroups, PageGroupForm,
	PageStudents, PageStudentForm,
}

// PageData - данные для шаблона страницы
type PageData struct {
	Title     string
	User      string
	Action    string
	Form      interface{}
	Errors    *ModelState
	Data      interface{}
	Groups    []domain.GroupListItemGetResponse
	FileName  string
	ReturnURL string
	Status    int
	Message   string
}

// Views хранит разобранные шаблоны страниц
type Views struct {
	pages map[string]*template.Template
}

// NewViews разбирает встроенные шаблоны
func NewViews() (*Views, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"dateInput": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(domain.InputDateLayout)
		},
	}

	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

// Render отрисовывает страницу в буфер и только затем пишет ее в w
func (v *Views) Render(w io.Writer, page string, data *PageData) error {
	tmpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
