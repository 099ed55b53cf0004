// Package suggest learns description-to-category pairs and proposes a
// category for new descriptions. The terminal client queries it while an
// operator fixes rejected rows, so accepted fixes teach future imports.
package suggest

import (
	"context"
	"strings"
)

type Repository interface {
	// FindCategory returns the category of the longest stored pattern
	// contained in the description, or "" when nothing matches.
	FindCategory(ctx context.Context, description string) (string, error)

	// UpsertRule stores a pattern-to-category rule, replacing the category
	// of an existing pattern.
	UpsertRule(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest proposes a category for the given description. Returns empty
// string if no stored rule matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	return s.repo.UpsertRule(ctx, strings.TrimSpace(pattern), strings.TrimSpace(category))
}
