// Package testing provides test utilities and database setup for testing the link engine
package testing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kompihq/kompi-links/models"
	"github.com/kompihq/kompi-links/repository"
	"github.com/kompihq/kompi-links/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestWorkspace creates a workspace on the given plan
func (tf *TestFixtures) CreateTestWorkspace(plan string) (*models.Workspace, error) {
	suffix := rand.Intn(10000000)
	workspace := &models.Workspace{
		UUID: uuid.New(),
		Name: fmt.Sprintf("Test Workspace %d", suffix),
		Slug: fmt.Sprintf("test-workspace-%d", suffix),
		Plan: plan,
	}

	if err := tf.DB.DB.Create(workspace).Error; err != nil {
		return nil, fmt.Errorf("failed to create test workspace: %w", err)
	}

	return workspace, nil
}

// CreateTestLink creates an active link in the given workspace
func (tf *TestFixtures) CreateTestLink(workspaceID uint, code string) (*models.Link, error) {
	if code == "" {
		code = fmt.Sprintf("tst%04d", rand.Intn(10000))
	}

	link := &models.Link{
		UUID:        uuid.New(),
		WorkspaceID: workspaceID,
		Code:        code,
		TargetURL:   "https://example.com/landing",
		Title:       utils.ToPtr("Test Link"),
		IsActive:    true,
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}

	return link, nil
}

// CreateTestClickEvent creates a click event at the given instant
func (tf *TestFixtures) CreateTestClickEvent(linkID uint, referer, userAgent *string, at time.Time) (*models.ClickEvent, error) {
	event := &models.ClickEvent{
		LinkID:    linkID,
		Referer:   referer,
		UserAgent: userAgent,
		CreatedAt: at.UTC(),
	}

	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test click event: %w", err)
	}

	return event, nil
}

// CreateClickSeries inserts count events spaced evenly backwards from now,
// in a single batch insert
func (tf *TestFixtures) CreateClickSeries(linkID uint, count int, span time.Duration) ([]*models.ClickEvent, error) {
	if count <= 0 {
		return nil, nil
	}
	step := span / time.Duration(count)
	now := utils.UTCNow()

	events := make([]*models.ClickEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, &models.ClickEvent{
			LinkID:    linkID,
			CreatedAt: now.Add(-time.Duration(i) * step).UTC(),
		})
	}

	eventRepo := repository.NewClickEventRepository(tf.DB.DB)
	if err := eventRepo.SaveBatch(context.Background(), events); err != nil {
		return nil, fmt.Errorf("failed to create click series: %w", err)
	}
	return events, nil
}
