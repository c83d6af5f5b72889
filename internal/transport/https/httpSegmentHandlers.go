package https

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
	"segmentservice/internal/service"
)

type HTTPHandlers struct {
	SegmentService *service.SegmentService
	UserService    *service.UserService
}

func NewHTTPHandlers(segmentService *service.SegmentService, userService *service.UserService) *HTTPHandlers {
	return &HTTPHandlers{
		SegmentService: segmentService,
		UserService:    userService,
	}
}

var errPercentNotInteger = apperror.New(apperror.ErrRange, "auto_assign_percent", "auto_assign_percent must be an integer between 0 and 100")

func parsePercent(n *json.Number) (*int, error) {
	if n == nil {
		return nil, nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil, errPercentNotInteger
	}
	if v < 0 || v > 100 {
		return nil, apperror.ErrPercentRange
	}
	p := int(v)
	return &p, nil
}

// parseDescription tells an absent key (nil) from null or "" (clear).
func parseDescription(raw json.RawMessage) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if string(raw) == "null" {
		empty := ""
		return &empty, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperror.New(apperror.ErrValidation, "description", "description must be a string")
	}
	return &s, nil
}

// @Summary Create segment
// @Description Creates a segment. With auto_assign_percent the segment is given to that share of all users at random.
// @Tags segment
// @Accept json
// @Produce json
// @Param input body model.SegmentCreateDTO true "Segment parameters"
// @Success 201 {object} model.SegmentCreatedDTO
// @Failure 400 {object} model.ErrorDTO "Missing slug or percentage out of range"
// @Failure 409 {object} model.ErrorDTO "Slug already exists"
// @Failure 422 {object} model.ErrorDTO "Slug format"
// @Failure 500 {object} model.ErrorDTO
// @Router /api/segments [post]
func (h *HTTPHandlers) HandleAddSegment(w http.ResponseWriter, r *http.Request) {
	var dto model.SegmentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	percent, err := parsePercent(dto.AutoAssignPercent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	seg, err := h.SegmentService.CreateSegment(r.Context(), model.CreateSegmentInput{
		Slug:              dto.Slug,
		Name:              dto.Name,
		Description:       dto.Description,
		AutoAssignPercent: percent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.SegmentCreatedDTO{
		ID:          seg.ID,
		Slug:        seg.Slug,
		Name:        seg.Name,
		Description: seg.Description,
		CreatedAt:   seg.CreatedAt,
	})
}

// @Summary Update segment
// @Description Updates name/description. With auto_assign_percent all memberships are dropped and re-drawn for the new share.
// @Tags segment
// @Accept json
// @Produce json
// @Param slug path string true "Segment slug"
// @Param input body model.SegmentUpdateDTO true "Fields to change"
// @Success 200 {object} model.SegmentUpdatedDTO
// @Failure 400 {object} model.ErrorDTO
// @Failure 404 {object} model.ErrorDTO
// @Failure 500 {object} model.ErrorDTO
// @Router /api/segments/{slug} [put]
func (h *HTTPHandlers) HandleUpdateSegment(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var dto model.SegmentUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	percent, err := parsePercent(dto.AutoAssignPercent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	description, err := parseDescription(dto.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	seg, err := h.SegmentService.UpdateSegment(r.Context(), slug, model.UpdateSegmentInput{
		Name:              dto.Name,
		Description:       description,
		AutoAssignPercent: percent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SegmentUpdatedDTO{
		ID:          seg.ID,
		Slug:        seg.Slug,
		Name:        seg.Name,
		Description: seg.Description,
		UpdatedAt:   seg.UpdatedAt,
	})
}

// @Summary Delete segment
// @Tags segment
// @Param slug path string true "Segment slug"
// @Success 204
// @Failure 404 {object} model.ErrorDTO
// @Router /api/segments/{slug} [delete]
func (h *HTTPHandlers) HandleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	if err := h.SegmentService.DeleteSegment(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get segment
// @Tags segment
// @Produce json
// @Param slug path string true "Segment slug"
// @Success 200 {object} model.SegmentDetailsDTO
// @Failure 404 {object} model.ErrorDTO
// @Router /api/segments/{slug} [get]
func (h *HTTPHandlers) HandleGetSegment(w http.ResponseWriter, r *http.Request) {
	seg, err := h.SegmentService.GetSegment(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SegmentDetailsDTO{
		ID:          seg.ID,
		Slug:        seg.Slug,
		Name:        seg.Name,
		Description: seg.Description,
		MemberCount: seg.MemberCount,
		CreatedAt:   seg.CreatedAt,
		UpdatedAt:   seg.UpdatedAt,
	})
}

// @Summary List segments
// @Tags segment
// @Produce json
// @Success 200 {array} model.Segment
// @Failure 500 {object} model.ErrorDTO
// @Router /api/segments [get]
func (h *HTTPHandlers) HandleGetAllSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := h.SegmentService.GetAllSegments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segments)
}

// @Summary List segment members
// @Tags segment
// @Produce json
// @Param slug path string true "Segment slug"
// @Success 200 {object} model.SegmentMembersDTO
// @Failure 404 {object} model.ErrorDTO
// @Router /api/segments/{slug}/users [get]
func (h *HTTPHandlers) HandleGetSegmentMembers(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	memberships, err := h.SegmentService.GetSegmentMemberships(r.Context(), slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := model.SegmentMembersDTO{Slug: slug, UserIDs: make([]int64, 0, len(memberships)), Members: memberships}
	for _, m := range memberships {
		resp.UserIDs = append(resp.UserIDs, m.UserID)
	}
	writeJSON(w, http.StatusOK, resp)
}
