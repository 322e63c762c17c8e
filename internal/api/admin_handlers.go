package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ehsas/internal/alumni"
	"ehsas/internal/notify"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	sess, err := s.Admins.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    sess.Admin.ID,
		"email": sess.Admin.Email,
		"role":  sess.Admin.Role,
		"token": sess.Token,
	})
}

type statsResponse struct {
	TotalAlumni          int                 `json:"total_alumni"`
	PendingRegistrations int                 `json:"pending_registrations"`
	TotalEvents          int                 `json:"total_events"`
	BatchDistribution    []alumni.BatchCount `json:"batch_distribution"`
}

func (s *server) stats(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := s.Alumni.Stats(ctx)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	events, err := s.Content.CountActiveEvents(ctx)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		TotalAlumni:          st.TotalAlumni,
		PendingRegistrations: st.PendingRegistrations,
		TotalEvents:          events,
		BatchDistribution:    st.BatchDistribution,
	})
}

func (s *server) listNotifications(c *gin.Context) {
	list, err := s.Notifications.List(c.Request.Context(), notify.MaxList)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *server) markNotificationRead(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
