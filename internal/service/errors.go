// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/shopadmin/internal/menutree"
)

// ValidationError reports a missing or malformed input field.
// Nothing has been written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports a menu or item that does not exist in the current
// store. Key names lookups that are not by id.
type NotFoundError struct {
	Entity string
	ID     int64
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PersistenceError wraps a data store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// StructuralError reports a change that would break the item forest:
// a cycle, a parent from another menu, or an item foreign to the menu.
type StructuralError struct {
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	return e.Reason
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// structural converts menutree shape errors; anything else is returned as is.
func structural(err error) error {
	var (
		cycle   *menutree.CycleError
		missing *menutree.MissingParentError
		unknown *menutree.UnknownItemError
	)
	if errors.As(err, &cycle) || errors.As(err, &missing) || errors.As(err, &unknown) {
		return &StructuralError{Reason: err.Error(), Err: err}
	}
	return err
}

// HTTPStatus maps a service error to a response status code.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		structure  *StructuralError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &structure):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns text safe to show to an operator. Persistence details
// are replaced by a generic message.
func UserMessage(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return "A database error occurred. Please try again."
	}
	return err.Error()
}
