package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/pkg/auth"
)

// ErrEmptyToken возвращается, если API принял вход, но не выдал токен
var ErrEmptyToken = errors.New("backend returned an empty token")

// GetAllPaginated запрашивает страницу списка: GET <base>/<path>?page=N
func GetAllPaginated[T any](ctx context.Context, c *Client, path string, page int) (*domain.PaginatedResponse[T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(path, query), nil)
	if err != nil {
		return nil, err
	}

	var result domain.PaginatedResponse[T]
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get запрашивает один ресурс: GET <base>/<path>
func Get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(path, nil), nil)
	if err != nil {
		return nil, err
	}

	var result T
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create отправляет JSON и возвращает идентификатор созданного ресурса
func (c *Client) Create(ctx context.Context, path string, payload interface{}) (*domain.CreateResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var result domain.CreateResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update отправляет JSON методом PUT
func (c *Client) Update(ctx context.Context, path string, payload interface{}) error {
	req, err := c.newJSONRequest(ctx, http.MethodPut, path, payload)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Delete удаляет ресурс
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.resolve(path, nil), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// CreateFromForm отправляет multipart-форму и возвращает идентификатор созданного ресурса
func (c *Client) CreateFromForm(ctx context.Context, path string, form domain.FormPayload) (*domain.CreateResponse, error) {
	req, err := c.newMultipartRequest(ctx, http.MethodPost, path, form)
	if err != nil {
		return nil, err
	}

	var result domain.CreateResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateFromForm отправляет multipart-форму методом PUT
func (c *Client) UpdateFromForm(ctx context.Context, path string, form domain.FormPayload) error {
	req, err := c.newMultipartRequest(ctx, http.MethodPut, path, form)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Login обменивает учетные данные на токен. Запрос уходит без токена сессии
func (c *Client) Login(ctx context.Context, credentials domain.LoginRequest) (string, error) {
	req, err := c.newJSONRequest(auth.WithToken(ctx, ""), http.MethodPost, "auth/login", credentials)
	if err != nil {
		return "", err
	}

	var result domain.LoginResponse
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", ErrEmptyToken
	}
	return result.Token, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, c.resolve(path, nil), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req, nil
}

// newMultipartRequest пишет форму в pipe по мере чтения тела транспортом
func (c *Client) newMultipartRequest(ctx context.Context, method, path string, form domain.FormPayload) (*http.Request, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	req, err := c.newRequest(ctx, method, c.resolve(path, nil), pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	fields := form.FormFields()
	go func() {
		pw.CloseWithError(writeForm(mw, fields))
	}()

	return req, nil
}

func writeForm(mw *multipart.Writer, fields []domain.FormField) error {
	for _, field := range fields {
		if !field.IsFile() {
			if err := mw.WriteField(field.Name, field.Value); err != nil {
				return err
			}
			continue
		}
		if err := writeFilePart(mw, field); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFilePart(mw *multipart.Writer, field domain.FormField) error {
	src, err := field.Open()
	if err != nil {
		return fmt.Errorf("failed to open file %q: %w", field.Filename, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile(field.Name, field.Filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}
