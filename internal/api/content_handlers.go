package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ehsas/internal/content"
)

const (
	eventNotFound     = "Event not found"
	spotlightNotFound = "Spotlight alumni not found"
)

func (s *server) listEvents(c *gin.Context) {
	activeOnly := true
	if v := c.Query("active_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "active_only must be true or false")
			return
		}
		activeOnly = b
	}
	events, err := s.Content.ListEvents(c.Request.Context(), activeOnly)
	if err != nil {
		s.fail(c, err, eventNotFound)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *server) createEvent(c *gin.Context) {
	var in content.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Malformed event payload")
		return
	}
	e, err := s.Content.CreateEvent(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, eventNotFound)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *server) updateEvent(c *gin.Context) {
	var in content.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Malformed event payload")
		return
	}
	if err := s.Content.UpdateEvent(c.Request.Context(), c.Param("id"), in); err != nil {
		s.fail(c, err, eventNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated"})
}

func (s *server) deleteEvent(c *gin.Context) {
	if err := s.Content.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, eventNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func (s *server) listFeaturedSpotlight(c *gin.Context) {
	s.listSpotlight(c, true)
}

func (s *server) listAllSpotlight(c *gin.Context) {
	s.listSpotlight(c, false)
}

func (s *server) listSpotlight(c *gin.Context, featuredOnly bool) {
	list, err := s.Content.ListSpotlight(c.Request.Context(), featuredOnly)
	if err != nil {
		s.fail(c, err, spotlightNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *server) createSpotlight(c *gin.Context) {
	var in content.SpotlightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Malformed spotlight payload")
		return
	}
	sp, err := s.Content.CreateSpotlight(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, spotlightNotFound)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (s *server) updateSpotlight(c *gin.Context) {
	var in content.SpotlightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Malformed spotlight payload")
		return
	}
	if err := s.Content.UpdateSpotlight(c.Request.Context(), c.Param("id"), in); err != nil {
		s.fail(c, err, spotlightNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spotlight alumni updated"})
}

func (s *server) deleteSpotlight(c *gin.Context) {
	if err := s.Content.DeleteSpotlight(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, spotlightNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spotlight alumni deleted"})
}
