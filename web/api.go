// ABOUTME: API handlers for leads, contacts, activities and analytics
// ABOUTME: Each handler validates input, calls one operation and writes JSON
package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/leads"
	"github.com/harperreed/prospect/models"
)

type linkRequest struct {
	ActivityID flexID `json:"activityId"`
	ContactID  flexID `json:"contactId"`
}

func (s *Server) handleLinkActivity(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}

	res, err := s.svc.LinkActivityToContact(r.Context(), int64(req.ActivityID), int64(req.ContactID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.GetAnalytics(r.Context(), r.URL.Query().Get("days"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleContactFollowups(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.GetDueContactFollowups(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type attemptRequest struct {
	Channel string `json:"channel"`
	Notes   string `json:"notes"`
}

func (s *Server) handleLogAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req attemptRequest
	if !s.decodeJSONBody(w, r, &req, true) {
		return
	}

	res, err := s.svc.LogLeadContactAttempt(r.Context(), id, leads.AttemptInput{Channel: req.Channel, Notes: req.Notes})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type convertRequest struct {
	LeadID flexID `json:"leadId"`
}

func (s *Server) handleConvertLead(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}

	res, err := s.svc.ConvertLead(r.Context(), int64(req.LeadID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLeadFollowups(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.GetDueLeadFollowups(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type recordRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Notes       string `json:"notes"`
	CadenceDays *int   `json:"cadence_days"`
}

func (req recordRequest) contact() *models.Contact {
	return &models.Contact{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Notes:       req.Notes,
		CadenceDays: req.CadenceDays,
	}
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}
	lead, err := s.svc.CreateLead(r.Context(), req.contact())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}
	contact, err := s.svc.CreateContact(r.Context(), req.contact())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.ContactFilter{
		Type:  models.ContactType(strings.ToLower(q.Get("type"))),
		Query: q.Get("q"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.badRequest(w, r, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	list, err := s.svc.ListContacts(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	contact, err := s.svc.GetContact(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (s *Server) handleContactActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := s.svc.ListContactActivities(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleContactAttempts(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := s.svc.ListAttempts(r.Context(), id, 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type cadenceRequest struct {
	Days int `json:"days"`
}

func (s *Server) handleSetCadence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req cadenceRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}
	if err := s.svc.SetCadence(r.Context(), id, req.Days); err != nil {
		s.fail(w, r, err)
		return
	}
	contact, err := s.svc.GetContact(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListActivities(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type captureRequest struct {
	Content        string    `json:"content"`
	OccurredAt     time.Time `json:"occurred_at"`
	ScreenshotPath string    `json:"screenshot_path"`
}

func (s *Server) handleCaptureActivity(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if !s.decodeJSONBody(w, r, &req, false) {
		return
	}
	activity, err := s.svc.CaptureActivity(r.Context(), activities.CaptureInput{
		Content:        req.Content,
		OccurredAt:     req.OccurredAt,
		ScreenshotPath: req.ScreenshotPath,
		Source:         models.SourceAPI,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (s *Server) handleUnlinkActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.svc.UnlinkActivity(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
