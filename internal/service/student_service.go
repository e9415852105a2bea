package service

import (
	"context"
	"fmt"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/internal/messaging"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/metrics"
)

const studentsPath = "students"

// StudentService представляет операции над студентами
type StudentService struct {
	client  *client.Client
	auditor *auditor
	logger  logger.Logger
}

// NewStudentService создает новый экземпляр StudentService
func NewStudentService(c *client.Client, publisher messaging.Publisher, m *metrics.Metrics, log logger.Logger) *StudentService {
	log = log.With("service", "student")
	return &StudentService{
		client:  c,
		auditor: newAuditor(publisher, m, log),
		logger:  log,
	}
}

// List возвращает страницу студентов
func (s *StudentService) List(ctx context.Context, page int) (*domain.PaginatedResponse[domain.StudentListItemGetResponse], error) {
	return client.GetAllPaginated[domain.StudentListItemGetResponse](ctx, s.client, studentsPath, page)
}

// Get возвращает студента для формы редактирования
func (s *StudentService) Get(ctx context.Context, id int) (*domain.StudentGetResponse, error) {
	return client.Get[domain.StudentGetResponse](ctx, s.client, studentPath(id))
}

// Create отправляет форму нового студента
func (s *StudentService) Create(ctx context.Context, req *domain.StudentCreateRequest) (*domain.CreateResponse, error) {
	created, err := s.client.CreateFromForm(ctx, studentsPath, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student created", map[string]interface{}{"student_id": created.ID})
	s.auditor.record(ctx, messaging.EventTypeStudentCreated, "student", created.ID)
	return created, nil
}

// Update отправляет измененную форму студента
func (s *StudentService) Update(ctx context.Context, id int, req *domain.StudentCreateRequest) error {
	if err := s.client.UpdateFromForm(ctx, studentPath(id), req); err != nil {
		return err
	}

	s.auditor.record(ctx, messaging.EventTypeStudentUpdated, "student", id)
	return nil
}

// Delete удаляет студента
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, studentPath(id)); err != nil {
		return err
	}

	s.logger.Info("Student deleted", map[string]interface{}{"student_id": id})
	s.auditor.record(ctx, messaging.EventTypeStudentDeleted, "student", id)
	return nil
}

func studentPath(id int) string {
	return fmt.Sprintf("%s/%d", studentsPath, id)
}
