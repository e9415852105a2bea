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

const groupsPath = "groups"

// GroupService представляет операции над группами
type GroupService struct {
	client  *client.Client
	lookup  *LookupService
	auditor *auditor
	logger  logger.Logger
}

// NewGroupService создает новый экземпляр GroupService
func NewGroupService(
	c *client.Client,
	lookup *LookupService,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
) *GroupService {
	log = log.With("service", "group")
	return &GroupService{
		client:  c,
		lookup:  lookup,
		auditor: newAuditor(publisher, m, log),
		logger:  log,
	}
}

// List возвращает страницу групп
func (s *GroupService) List(ctx context.Context, page int) (*domain.PaginatedResponse[domain.GroupListItemDetailedGetResponse], error) {
	return client.GetAllPaginated[domain.GroupListItemDetailedGetResponse](ctx, s.client, groupsPath, page)
}

// Get возвращает группу для формы редактирования
func (s *GroupService) Get(ctx context.Context, id int) (*domain.GroupCreateRequest, error) {
	return client.Get[domain.GroupCreateRequest](ctx, s.client, groupPath(id))
}

// Create создает группу
func (s *GroupService) Create(ctx context.Context, req domain.GroupCreateRequest) (*domain.CreateResponse, error) {
	created, err := s.client.Create(ctx, groupsPath, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group created", map[string]interface{}{"group_id": created.ID})
	s.lookup.Invalidate(ctx)
	s.auditor.record(ctx, messaging.EventTypeGroupCreated, "group", created.ID)
	return created, nil
}

// Update изменяет группу
func (s *GroupService) Update(ctx context.Context, id int, req domain.GroupCreateRequest) error {
	if err := s.client.Update(ctx, groupPath(id), req); err != nil {
		return err
	}

	s.lookup.Invalidate(ctx)
	s.auditor.record(ctx, messaging.EventTypeGroupUpdated, "group", id)
	return nil
}

// Delete удаляет группу
func (s *GroupService) Delete(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, groupPath(id)); err != nil {
		return err
	}

	s.logger.Info("Group deleted", map[string]interface{}{"group_id": id})
	s.lookup.Invalidate(ctx)
	s.auditor.record(ctx, messaging.EventTypeGroupDeleted, "group", id)
	return nil
}

func groupPath(id int) string {
	return fmt.Sprintf("%s/%d", groupsPath, id)
}
