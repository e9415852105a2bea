package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/nurlyy/course_ui/pkg/logger"
)

// Recoverer перехватывает панику в обработчике, логирует ее и отдает страницу ошибки
func Recoverer(log logger.Logger, fallback http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil || rec == http.ErrAbortHandler {
					if rec != nil {
						panic(rec)
					}
					return
				}

				log.Error("Panic recovered", fmt.Errorf("%v", rec), map[string]interface{}{
					"path":  r.URL.Path,
					"stack": string(debug.Stack()),
				})
				fallback(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
