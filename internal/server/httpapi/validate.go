package httpapi

import (
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

func validEmail(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}

func validateRegister(req *registerRequest) *common.ValidationError {
	ve := &common.ValidationError{}

	if len(strings.TrimSpace(req.Username)) < minUsernameLen {
		ve.Add("username", "must be at least 3 characters")
	}
	if !validEmail(req.Email) {
		ve.Add("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLen {
		ve.Add("password", "must be at least 6 characters")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateLogin(req *loginRequest) *common.ValidationError {
	ve := &common.ValidationError{}

	if !validEmail(req.Email) {
		ve.Add("email", "must be a valid email address")
	}
	if req.Password == "" {
		ve.Add("password", "must not be empty")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateProfileUpdate(req *profileUpdateRequest) *common.ValidationError {
	ve := &common.ValidationError{}

	if req.Username != nil && len(strings.TrimSpace(*req.Username)) < minUsernameLen {
		ve.Add("username", "must be at least 3 characters")
	}
	if req.Email != nil && !validEmail(*req.Email) {
		ve.Add("email", "must be a valid email address")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// validateTaskPayload checks the enum fields of a create or update body.
// Title presence is enforced by the handlers, which know whether the
// request is a create or a partial update.
func validateTaskPayload(req *taskPayload) *common.ValidationError {
	ve := &common.ValidationError{}

	if req.Status != nil && !models.ValidStatus(*req.Status) {
		ve.Add("status", "must be one of: todo, in-progress, completed")
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		ve.Add("priority", "must be one of: low, medium, high")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateListQuery(status, priority string) *common.ValidationError {
	ve := &common.ValidationError{}

	if status != "" && !models.ValidStatus(status) {
		ve.Add("status", "must be one of: todo, in-progress, completed")
	}
	if priority != "" && !models.ValidPriority(priority) {
		ve.Add("priority", "must be one of: low, medium, high")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
