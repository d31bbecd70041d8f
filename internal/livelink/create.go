package livelink

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
)

var countLinkPattern = regexp.MustCompile(`(?i)/c/([a-f0-9]{64})`)

// CreateResult describes a freshly provisioned list.
type CreateResult struct {
	Name       string
	Slug       string
	OwnerToken domain.Token
	CountToken domain.Token
	ViewURL    string
	CountURL   string
	OwnerURL   string
}

// Create provisions a new remote list. The count token comes from the count
// link in the response, or failing that from the owner settings.
// Nothing is added to the registry.
func (s *Service) Create(ctx context.Context, name string) (*CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultListName
	}
	if err := s.validate.Var(name, nameRules); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidName, err)
	}

	created, err := s.api.CreateList(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	log := logger.FromContext(ctx)
	result := &CreateResult{
		Name:       name,
		Slug:       created.Slug,
		OwnerToken: domain.Token(created.OwnerToken),
		ViewURL:    s.api.ViewURL(created.Slug),
		CountURL:   created.Links.Count,
	}

	if m := countLinkPattern.FindStringSubmatch(created.Links.Count); m != nil {
		result.CountToken = domain.Token(m[1])
	}
	if result.CountToken.IsZero() && created.OwnerToken != "" {
		settings, err := s.api.OwnerSettings(ctx, created.OwnerToken)
		switch {
		case err != nil:
			log.Warn(LogMsgOwnerSettingsFailed, "slug", created.Slug, "error", err)
		case settings.CountToken != "":
			result.CountToken = domain.Token(settings.CountToken)
		}
	}
	if !result.CountToken.IsZero() {
		result.CountURL = s.api.CountURL(result.CountToken)
	}
	if !result.OwnerToken.IsZero() {
		result.OwnerURL = s.api.OwnerURL(created.OwnerToken)
	}

	log.Info(LogMsgCreatedList, "slug", result.Slug, "count_token", result.CountToken)
	return result, nil
}
