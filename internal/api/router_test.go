package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/service"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

const testToken = "session-token"

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "course-ui-test", Environment: "test"},
		HTTP:    config.HTTPConfig{Port: "0", AllowedOrigins: []string{"*"}, MaxUploadSize: 1 << 20},
		Backend: config.BackendConfig{BaseURL: backendURL + "/api/", Timeout: 5 * time.Second},
		Session: config.SessionConfig{CookieName: "token", CookieTTL: time.Hour},
		Redis:   config.RedisConfig{DefaultTTL: time.Minute},
		Scheduler: config.SchedulerConfig{
			BackendProbeCron:    "*/30 * * * * *",
			BackendProbeTimeout: time.Second,
		},
		RateLimit:  config.RateLimitConfig{Limit: 1000, Period: 60, Strategy: "ip"},
		Monitoring: config.MonitoringConfig{PrometheusEnabled: true, MetricsPath: "/metrics"},
	}
}

type testEnv struct {
	server  *Server
	calls   *atomic.Int32
	backend *httptest.Server
}

func newTestEnv(t *testing.T, backend http.HandlerFunc, tweak ...func(*config.Config)) *testEnv {
	t.Helper()

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		backend(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	for _, fn := range tweak {
		fn(cfg)
	}

	log := logger.NewNopLogger()
	m := metrics.New()
	c, err := client.NewClient(&cfg.Backend, log, m)
	require.NoError(t, err)

	lookup := service.NewLookupService(c, nil, time.Minute, log)
	services := &Services{
		GroupService:     service.NewGroupService(c, lookup, nil, m, log),
		StudentService:   service.NewStudentService(c, nil, m, log),
		LookupService:    lookup,
		AuthService:      service.NewAuthService(c, nil, log),
		SchedulerService: service.NewSchedulerService(c, &cfg.Scheduler, m, log),
	}

	server, err := NewServer(cfg, log, m, nil, services)
	require.NoError(t, err)
	return &testEnv{server: server, calls: calls, backend: srv}
}

func (e *testEnv) do(req *http.Request, withSession bool) *httptest.ResponseRecorder {
	if withSession {
		req.AddCookie(&http.Cookie{Name: "token", Value: testToken})
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func jsonReply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestProtectedPageWithoutSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group?page=2", nil), false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account/login?returnUrl=%2Fgroup%3Fpage%3D2", rec.Header().Get("Location"))
	assert.Zero(t, env.calls.Load())
}

func TestGroupIndex(t *testing.T) {
	var gotAuth, gotQuery string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotQuery = r.Header.Get("Authorization"), r.URL.RawQuery
		jsonReply(w, http.StatusOK, `{"items":[{"id":1,"name":"P101","studentsCount":4}],"totalPages":1,"currentPage":1}`)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "P101")
	assert.Equal(t, "Bearer "+testToken, gotAuth)
	assert.Equal(t, "page=1", gotQuery)
}

func TestGroupIndexUnauthorizedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group", nil), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account/login", rec.Header().Get("Location"))
}

func TestGroupIndexBackendFailureRedirectsToErrorPage(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group", nil), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home/error", rec.Header().Get("Location"))
}

func TestStudentIndexPageBeyondLastRedirects(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("page"))
		jsonReply(w, http.StatusOK, `{"items":[],"totalPages":3,"currentPage":5}`)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/student?page=5", nil), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/student?page=3", rec.Header().Get("Location"))
}

func TestGroupCreateBackendValidationError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusBadRequest, `{"message":"invalid","errors":[{"key":"name","message":"required"}]}`)
	})

	rec := env.do(postForm("/group/create", url.Values{"Name": {"A"}}), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="field-error">required</span>`)
	assert.EqualValues(t, 1, env.calls.Load())
}

func TestGroupCreateLocalValidation(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusCreated, `{"id":1}`)
	})

	rec := env.do(postForm("/group/create", url.Values{"Name": {""}}), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required")
	assert.Zero(t, env.calls.Load())
}

func TestGroupCreateSuccessRedirects(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusCreated, `{"id":1}`)
	})

	rec := env.do(postForm("/group/create", url.Values{"Name": {"P101"}}), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/group", rec.Header().Get("Location"))
}

func TestGroupDeleteStatusPassthrough(t *testing.T) {
	status := http.StatusUnauthorized
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(status)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group/delete/3", nil), true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	status = http.StatusNoContent
	rec = env.do(httptest.NewRequest(http.MethodDelete, "/group/delete/3", nil), true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentDelete(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/4") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/student/delete/3", nil), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/student", rec.Header().Get("Location"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/student/delete/4", nil), true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentEditPageLoadsStudentAndGroups(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/students/7":
			jsonReply(w, http.StatusOK, `{"id":7,"fullName":"Ann Lee","groupId":2,"point":77,"birthDate":"2001-03-04T00:00:00","fileName":"cv.pdf"}`)
		case "/api/groups/all":
			jsonReply(w, http.StatusOK, `{"items":[{"id":1,"name":"P101"},{"id":2,"name":"P102"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/student/edit/7", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Ann Lee"`)
	assert.Contains(t, body, `<option value="2" selected>P102</option>`)
	assert.Contains(t, body, `value="2001-03-04"`)
	assert.Contains(t, body, "cv.pdf")
}

func TestStudentCreateRequestErrorGoesToSummary(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/groups/all" {
			jsonReply(w, http.StatusOK, `{"items":[{"id":1,"name":"P101"}]}`)
			return
		}
		jsonReply(w, http.StatusConflict, `{"message":"Group is full"}`)
	})

	values := url.Values{
		"FullName":  {"Ann Lee"},
		"GroupId":   {"1"},
		"Point":     {"50"},
		"BirthDate": {"2001-03-04"},
	}
	rec := env.do(postForm("/student/create", values), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<li>Group is full</li>")
}

func TestInvalidIDRendersBadRequest(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/group/edit/abc", nil), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSetsCookie(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusOK, `{"token":"issued"}`)
	})

	rec := env.do(postForm("/account/login", url.Values{
		"UserName":  {"admin"},
		"Password":  {"secret"},
		"ReturnUrl": {"/student?page=2"},
	}), false)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/student?page=2", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "issued", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginRejected(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	rec := env.do(postForm("/account/login", url.Values{
		"UserName":  {"admin"},
		"Password":  {"wrong"},
		"ReturnUrl": {"https://evil.example"},
	}), false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid user name or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil), false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, func(cfg *config.Config) {
		cfg.RateLimit.Limit = 2
	})

	for i := 0; i < 2; i++ {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil), false)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil), false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/nope", nil), false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}
