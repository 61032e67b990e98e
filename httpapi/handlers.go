package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthdesk/medassist/booking"
	"github.com/healthdesk/medassist/chat"
	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/review"
	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/session"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// reportRequest is shared by the analyze and ask endpoints; each uses
// its own payload field plus the common patient details.
type reportRequest struct {
	Report     string   `json:"report"`
	Question   string   `json:"question"`
	Age        int      `json:"age"`
	Literacy   string   `json:"literacy"`
	Conditions []string `json:"conditions"`
}

func (r reportRequest) patient() schema.PatientContext {
	age := r.Age
	if age <= 0 {
		age = 50
	}
	literacy := r.Literacy
	if literacy == "" {
		literacy = schema.LiteracyMedium
	}
	return schema.PatientContext{Age: age, MedicalLiteracy: literacy, Conditions: r.Conditions}
}

type verifyRequest struct {
	Approved *bool  `json:"approved"`
	Notes    string `json:"notes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.cfg.LLM.Provider,
		"model":    s.cfg.LLM.Model,
	})
}

// handleLegacyChat drives the fixed default conversation used by the
// single-page UI.
func (s *Server) handleLegacyChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	reply, err := s.chat.Chat(c.Request.Context(), defaultSession, req.Message)
	if err != nil {
		s.chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"response":        reply.Response,
		"is_emergency":    reply.IsEmergency,
		"severity":        reply.Severity,
		"patient_context": reply.PatientContext,
	})
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.chat.Reset(c.Request.Context()); err != nil {
		logger.Errorf("reset failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	reply, err := s.chat.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		s.chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.store.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		logger.Errorf("load session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	turns := sess.Turns
	if turns == nil {
		turns = []session.Turn{}
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":      sess.ID,
		"turns":           turns,
		"patient_context": sess.Context,
		"symptoms":        emptyIfNil(sess.Symptoms),
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		logger.Errorf("delete session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBookingSlots(c *gin.Context) {
	specialty := c.DefaultQuery("specialty", booking.DefaultSpecialty)
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
		return
	}

	slots := booking.AvailableSlots(specialty, days, s.now())
	if slots == nil {
		slots = []booking.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{
		"specialty":   specialty,
		"days":        days,
		"slots":       slots,
		"specialties": booking.Specialties,
	})
}

func (s *Server) handleAnalyzeReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Report == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No report provided"})
		return
	}

	reportID := uuid.NewString()
	out, err := s.report.AnalyzeReport(c.Request.Context(), reportID, req.Report, req.patient())
	if err != nil {
		s.upstreamError(c, err)
		return
	}

	findings := out.Findings
	if findings == nil {
		findings = []schema.MedicalFinding{}
	}
	c.JSON(http.StatusOK, gin.H{
		"report_id":       reportID,
		"summary":         out.Summary,
		"explanation":     out.PersonalizedExplanation,
		"findings":        findings,
		"confidence":      out.ConfidenceScore,
		"uncertainties":   emptyIfNil(out.UncertaintyNotes),
		"requires_review": out.RequiresDoctorReview,
	})
}

func (s *Server) handleAskQuestion(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No question provided"})
		return
	}

	ans, err := s.report.AnswerQuestion(c.Request.Context(), req.Question, req.patient())
	if err != nil {
		s.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answer":        ans.Answer,
		"confidence":    ans.Confidence,
		"sources":       emptyIfNil(ans.Sources),
		"uncertainties": emptyIfNil(ans.Uncertainties),
	})
}

func (s *Server) handlePendingReviews(c *gin.Context) {
	items, err := s.queue.Pending(c.Request.Context())
	if err != nil {
		logger.Errorf("list pending reviews failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if items == nil {
		items = []review.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": items})
}

func (s *Server) handleVerifyReview(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved field required"})
		return
	}

	item, err := s.queue.Verify(c.Request.Context(), c.Param("report_id"), *req.Approved, req.Notes)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		logger.Errorf("verify review failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// chatError maps chat failures onto the error contract: validation to
// 400, upstream trouble to a generic 500 with the cause kept server-side.
func (s *Server) chatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
	case errors.Is(err, llm.ErrUpstream):
		logger.Errorf("chat upstream failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant temporarily unavailable"})
	default:
		logger.Errorf("chat failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) upstreamError(c *gin.Context, err error) {
	if errors.Is(err, llm.ErrUpstream) {
		logger.Errorf("upstream failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant temporarily unavailable"})
		return
	}
	logger.Errorf("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
