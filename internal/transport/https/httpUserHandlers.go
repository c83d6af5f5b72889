package https

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

const defaultUsersLimit = 100

func userIDFromPath(r *http.Request) (int64, error) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperror.ErrUserIDInvalid
	}
	return userID, nil
}

func decodeSlugs(r *http.Request) ([]string, error) {
	var dto model.SegmentSlugsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return nil, apperror.New(apperror.ErrValidation, "body", "invalid JSON")
	}
	return dto.Segments, nil
}

// @Summary Register user
// @Tags user
// @Produce json
// @Success 201 {object} model.UserCreatedDTO
// @Failure 500 {object} model.ErrorDTO
// @Router /api/users [post]
func (h *HTTPHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.CreateUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.UserCreatedDTO{ID: user.ID, CreatedAt: user.CreatedAt})
}

// @Summary List users
// @Tags user
// @Produce json
// @Param limit query int false "Maximum number of users (default 100)"
// @Success 200 {array} model.User
// @Failure 400 {object} model.ErrorDTO
// @Router /api/users [get]
func (h *HTTPHandlers) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	limit := defaultUsersLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	users, err := h.UserService.GetUsers(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary User statistics
// @Tags user
// @Produce json
// @Success 200 {object} model.UserStatsDTO
// @Router /api/users/stats [get]
func (h *HTTPHandlers) HandleGetUserStats(w http.ResponseWriter, r *http.Request) {
	total, err := h.UserService.CountUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.UserStatsDTO{TotalUsers: total})
}

// @Summary Get user segments
// @Tags user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.UserSegmentsDTO
// @Failure 404 {object} model.ErrorDTO "User not found"
// @Router /api/users/{id}/segments [get]
func (h *HTTPHandlers) HandleGetUserSegments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	segments, err := h.UserService.GetUserSegments(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := model.UserSegmentsDTO{UserID: userID, Segments: make([]model.SegmentShortDTO, 0, len(segments))}
	for _, s := range segments {
		resp.Segments = append(resp.Segments, model.SegmentShortDTO{Slug: s.Slug, Name: s.Name, Description: s.Description})
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Add segments to user
// @Description Adds every listed segment. Unknown segments and segments the user already has are reported in errors; the rest are still added.
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body model.SegmentSlugsDTO true "Segment slugs"
// @Success 200 {object} model.AddedReportDTO
// @Failure 400 {object} model.ErrorDTO "No segments provided"
// @Failure 404 {object} model.ErrorDTO "User not found"
// @Router /api/users/{id}/segments [post]
func (h *HTTPHandlers) HandleAddUserSegments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slugs, err := decodeSlugs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.UserService.AddUserSegments(r.Context(), userID, slugs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AddedReportDTO{Added: report.Added, Errors: errorMessages(report.Errors)})
}

// @Summary Remove segments from user
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body model.SegmentSlugsDTO true "Segment slugs"
// @Success 200 {object} model.RemovedReportDTO
// @Failure 400 {object} model.ErrorDTO "No segments provided"
// @Failure 404 {object} model.ErrorDTO "User not found"
// @Router /api/users/{id}/segments [delete]
func (h *HTTPHandlers) HandleRemoveUserSegments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slugs, err := decodeSlugs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.UserService.RemoveUserSegments(r.Context(), userID, slugs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.RemovedReportDTO{Removed: report.Removed, Errors: errorMessages(report.Errors)})
}
