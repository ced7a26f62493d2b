package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/goto/salt/log"
)

// Service answers metadata questions about the objects of a backend.
// Object descriptions are cached for the life of the service. A Service
// is not safe for concurrent use.
type Service struct {
	describer Describer
	logger    log.Logger

	descriptions map[string]ObjectDescription
}

// NewService initializes metadata service
func NewService(logger log.Logger, describer Describer) *Service {
	return &Service{
		describer:    describer,
		logger:       logger,
		descriptions: make(map[string]ObjectDescription),
	}
}

// Describe returns the description of an object, fetching it once
func (s *Service) Describe(ctx context.Context, object string) (ObjectDescription, error) {
	if d, ok := s.descriptions[object]; ok {
		return d, nil
	}

	d, err := s.describer.DescribeObject(ctx, object)
	if err != nil {
		return ObjectDescription{}, fmt.Errorf("describe %q: %w", object, err)
	}
	s.descriptions[object] = d
	s.logger.Debug("described object", "object", object, "fields", len(d.Fields))
	return d, nil
}

// Fields returns all fields of an object
func (s *Service) Fields(ctx context.Context, object string) ([]Field, error) {
	d, err := s.Describe(ctx, object)
	if err != nil {
		return nil, err
	}
	return d.Fields, nil
}

// RequiredFields returns the non-nillable fields of an object
func (s *Service) RequiredFields(ctx context.Context, object string) ([]Field, error) {
	d, err := s.Describe(ctx, object)
	if err != nil {
		return nil, err
	}
	return d.Required(), nil
}

// HasField reports whether object has a field named field, ignoring case
func (s *Service) HasField(ctx context.Context, object, field string) (bool, error) {
	d, err := s.Describe(ctx, object)
	if err != nil {
		return false, err
	}
	for _, f := range d.Fields {
		if strings.EqualFold(f.Name, field) {
			return true, nil
		}
	}
	return false, nil
}

// IsInstalled reports whether the managed extension namespace is installed
func (s *Service) IsInstalled(ctx context.Context, namespace string) (bool, error) {
	if strings.TrimSpace(namespace) == "" {
		return false, nil
	}
	installed, err := s.describer.NamespaceInstalled(ctx, namespace)
	if err != nil {
		s.logger.Error("error checking namespace", "namespace", namespace, "err", err)
		return false, err
	}
	return installed, nil
}

// Organization returns the organization details
func (s *Service) Organization(ctx context.Context) (Organization, error) {
	return s.describer.Organization(ctx)
}

// CurrentUser returns the name of the user the backend session runs as
func (s *Service) CurrentUser(ctx context.Context) (string, error) {
	org, err := s.describer.Organization(ctx)
	if err != nil {
		return "", err
	}
	return org.UserName, nil
}
