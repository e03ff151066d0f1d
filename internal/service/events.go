// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/store"
)

// EventService records audit events attributed to an admin user.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates a new event log entry. A zero userID is stored as NULL.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID int64, metadata map[string]any) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    sql.NullInt64{Int64: userID, Valid: userID != 0},
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}
	return nil
}

// LogMenuEvent logs an info-level menu change.
func (s *EventService) LogMenuEvent(ctx context.Context, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryMenu, message, userID, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, metadata)
}

// RecentEvents returns the newest events first.
func (s *EventService) RecentEvents(ctx context.Context, limit int64) ([]store.Event, error) {
	events, err := s.queries.ListEvents(ctx, limit)
	if err != nil {
		return nil, persistence("listing events", err)
	}
	return events, nil
}
