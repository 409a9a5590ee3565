package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/http/middleware"
)

// PatientHandlers exposes patient profile and report endpoints
type PatientHandlers struct {
	profiles domain.ProfileRepository
	reports  domain.ReportRepository
	audit    domain.AuditLogger
}

// NewPatientHandlers creates new patient handlers
func NewPatientHandlers(profiles domain.ProfileRepository, reports domain.ReportRepository, audit domain.AuditLogger) *PatientHandlers {
	return &PatientHandlers{profiles: profiles, reports: reports, audit: audit}
}

// CreatePatientRequest represents an admin-provisioned profile
type CreatePatientRequest struct {
	Phone       string `json:"phone" binding:"required"`
	PatientName string `json:"patient_name"`
	ProfileType string `json:"profile_type"`
}

// UpdatePatientRequest represents a profile update request
type UpdatePatientRequest struct {
	PatientName string `json:"patient_name" binding:"required"`
}

// AddReportRequest represents report metadata registration
type AddReportRequest struct {
	FileName  string `json:"file_name" binding:"required"`
	ObjectKey string `json:"object_key" binding:"required"`
}

// List returns all patient profiles
func (h *PatientHandlers) List(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list patients"})
		return
	}

	out := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, gin.H{
			"id":           p.ID,
			"phone":        p.Phone,
			"profile_type": p.ProfileType,
			"patient_name": p.PatientName,
			"created_at":   p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Create provisions a patient profile ahead of first login. A phone
// collision does not fail: the repository stores the new record under a
// suffixed phone and leaves the original untouched.
func (h *PatientHandlers) Create(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone := domain.NormalizePhone(req.Phone)
	if !domain.IsValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		return
	}

	role := req.ProfileType
	idPrefix := "user"
	if role == "" {
		role = domain.RolePatient
	}
	if role == domain.RoleAdmin {
		idPrefix = "A"
	}

	profile := &domain.UserProfile{
		ID:          fmt.Sprintf("%s_%d", idPrefix, time.Now().UnixMilli()),
		Phone:       phone,
		ProfileType: role,
		PatientName: req.PatientName,
	}
	if err := h.profiles.Create(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	h.audit.LogEvent(c.Request.Context(), &domain.AuditEvent{
		EventType: domain.ProfileCreatedEvent,
		Phone:     profile.Phone,
		ProfileID: profile.ID,
		Success:   true,
	})

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":           profile.ID,
			"phone":        profile.Phone,
			"profile_type": profile.ProfileType,
			"patient_name": profile.PatientName,
		},
	})
}

// Get returns a single patient profile. Patients may only read their
// own profile; admins may read anyone's. The route policy only gates
// the path shape, so the ownership check lives here.
func (h *PatientHandlers) Get(c *gin.Context) {
	patientID := c.Param("id")
	if !h.canAccessPatient(c, patientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	profile, err := h.profiles.FindByID(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load patient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":           profile.ID,
			"phone":        profile.Phone,
			"profile_type": profile.ProfileType,
			"patient_name": profile.PatientName,
			"created_at":   profile.CreatedAt,
			"updated_at":   profile.UpdatedAt,
		},
	})
}

// Update changes a patient's display name
func (h *PatientHandlers) Update(c *gin.Context) {
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load patient"})
		return
	}

	profile.PatientName = req.PatientName
	if err := h.profiles.Update(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		return
	}

	h.audit.LogEvent(c.Request.Context(), &domain.AuditEvent{
		EventType: domain.ProfileUpdatedEvent,
		Phone:     profile.Phone,
		ProfileID: profile.ID,
		Success:   true,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":           profile.ID,
			"patient_name": profile.PatientName,
		},
	})
}

// ListReports returns report metadata for a patient. Patients may only
// read their own reports; admins may read anyone's.
func (h *PatientHandlers) ListReports(c *gin.Context) {
	patientID := c.Param("id")
	if !h.canAccessPatient(c, patientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	reports, err := h.reports.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	out := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		out = append(out, gin.H{
			"id":          r.ID,
			"file_name":   r.FileName,
			"object_key":  r.ObjectKey,
			"uploaded_by": r.UploadedBy,
			"created_at":  r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// AddReport registers report metadata for a patient
func (h *PatientHandlers) AddReport(c *gin.Context) {
	var req AddReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patientID := c.Param("id")
	if _, err := h.profiles.FindByID(c.Request.Context(), patientID); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load patient"})
		return
	}

	uploadedBy, _ := c.Get(middleware.CtxProfileID)
	uploader, _ := uploadedBy.(string)

	report := &domain.Report{
		PatientID:  patientID,
		FileName:   req.FileName,
		ObjectKey:  req.ObjectKey,
		UploadedBy: uploader,
	}
	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":         report.ID,
			"patient_id": report.PatientID,
			"file_name":  report.FileName,
		},
	})
}

func (h *PatientHandlers) canAccessPatient(c *gin.Context, patientID string) bool {
	role, _ := c.Get(middleware.CtxRole)
	if role == domain.RoleAdmin {
		return true
	}
	ownID, _ := c.Get(middleware.CtxProfileID)
	return ownID == patientID
}
