package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// GroupService manages communities. Groups are created by staff from the admin CLI.
type GroupService struct {
	groupRepo repository.GroupRepository
}

type CreateGroupInput struct {
	Slug        string
	Title       string
	Description string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	slug := strings.TrimSpace(in.Slug)
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewFieldError("slug", err.Error())
	}
	if err := validation.ValidateGroupTitle(in.Title); err != nil {
		return nil, models.NewFieldError("title", err.Error())
	}

	group := &models.Group{
		Slug:        slug,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// DeleteGroup removes the group; its posts stay, ungrouped.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, group.ID)
}
