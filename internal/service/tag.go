package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/util"
)

// TagService serves tags. Tags are reference data: anyone reads them,
// only admins and operator tooling create them.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: discardIfNil(logger)}
}

// CreateTagRequest describes a new tag. Slug defaults to the slugified name.
type CreateTagRequest struct {
	Name  string `json:"name" yaml:"name" validate:"required,max=200,tag_name"`
	Color string `json:"color" yaml:"color" validate:"required,color7"`
	Slug  string `json:"slug,omitempty" yaml:"slug" validate:"omitempty,max=200"`
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns one tag.
func (s *TagService) Get(ctx context.Context, tagID string) (*domain.Tag, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, storeErr(err, "tag not found")
	}
	return tag, nil
}

// Create adds a tag. Admins only.
func (s *TagService) Create(ctx context.Context, p domain.Principal, req CreateTagRequest) (*domain.Tag, error) {
	if err := policy.CanAdminister(p); err != nil {
		return nil, err
	}
	tag, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a tag with this name, color or slug already exists")
		}
		return nil, storeErr(err, "tag not found")
	}
	s.logger.Info("tag created", "tag_id", tag.ID, "slug", tag.Slug)
	return tag, nil
}

// Ensure returns the tag with the request's slug, creating it when absent.
// It is meant for operator tooling and skips the principal check.
func (s *TagService) Ensure(ctx context.Context, req CreateTagRequest) (*domain.Tag, bool, error) {
	tag, err := s.build(ctx, req)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.store.GetTagBySlug(ctx, tag.Slug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("get tag: %w", err)
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, false, storeErr(err, "tag not found")
	}
	return tag, true, nil
}

func (s *TagService) build(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.ToUpper(strings.TrimSpace(req.Color))
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	} else if util.Slugify(slug) != slug {
		return nil, domainerrors.ValidationWithDetails("invalid slug",
			map[string]string{"slug": "must contain only lowercase letters, digits and hyphens"})
	}
	if slug == "" {
		return nil, domainerrors.ValidationWithDetails("invalid slug",
			map[string]string{"slug": "cannot be derived from the name"})
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}
	return &domain.Tag{
		ID:        tagID,
		Name:      req.Name,
		Color:     req.Color,
		Slug:      slug,
		CreatedAt: time.Now(),
	}, nil
}
