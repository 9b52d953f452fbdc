package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type profileUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// taskPayload is shared by task creation and partial update; pointers
// distinguish "absent" from "empty".
type taskPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// decodeJSON unmarshals the request body into v, reporting a malformed
// body as a validation problem.
func decodeJSON(r *http.Request, v any) *common.ValidationError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewValidationError("body", "malformed JSON body")
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if ve := decodeJSON(r, &req); ve != nil {
		s.respondError(w, r, ve)
		return
	}
	if ve := validateRegister(&req); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	s.logger.Info(r.Context(), "Registration request", "username", req.Username)

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if ve := decodeJSON(r, &req); ve != nil {
		s.respondError(w, r, ve)
		return
	}
	if ve := validateLogin(&req); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	user, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	var req profileUpdateRequest
	if ve := decodeJSON(r, &req); ve != nil {
		s.respondError(w, r, ve)
		return
	}
	if ve := validateProfileUpdate(&req); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, users.Patch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	priority := q.Get("priority")

	if ve := validateListQuery(status, priority); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	result, err := s.tasks.List(r.Context(), userID, tasks.Filter{
		FreeText: q.Get("q"),
		Status:   status,
		Priority: priority,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	var req taskPayload
	if ve := decodeJSON(r, &req); ve != nil {
		s.respondError(w, r, ve)
		return
	}
	if req.Title == nil {
		s.respondError(w, r, common.NewValidationError("title", "title is required"))
		return
	}
	if ve := validateTaskPayload(&req); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	draft := services.TaskDraft{Title: *req.Title}
	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.Status != nil {
		draft.Status = *req.Status
	}
	if req.Priority != nil {
		draft.Priority = *req.Priority
	}

	task, err := s.tasks.Create(r.Context(), userID, draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	var req taskPayload
	if ve := decodeJSON(r, &req); ve != nil {
		s.respondError(w, r, ve)
		return
	}
	if ve := validateTaskPayload(&req); ve != nil {
		s.respondError(w, r, ve)
		return
	}

	task, err := s.tasks.Update(r.Context(), userID, r.PathValue("id"), tasks.Patch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {

	userID, ok := principalID(r.Context())
	if !ok {
		s.respondError(w, r, common.ErrorUnauthorized)
		return
	}

	if err := s.tasks.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, deleteResponse{Success: true})
}
