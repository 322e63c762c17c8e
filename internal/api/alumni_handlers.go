package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ehsas/internal/alumni"
)

// AlumniView is the listing shape. Street address and pincode are never exposed.
type AlumniView struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile"`
	YearOfJoining    int        `json:"year_of_joining"`
	YearOfLeaving    int        `json:"year_of_leaving"`
	ClassOfJoining   string     `json:"class_of_joining"`
	LastClassStudied string     `json:"last_class_studied"`
	LastHouse        string     `json:"last_house"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	Profession       string     `json:"profession"`
	Organization     string     `json:"organization"`
	Status           string     `json:"status"`
	MembershipID     *string    `json:"ehsas_id"`
	CreatedAt        time.Time  `json:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at"`
}

func viewOf(a alumni.Alumni) AlumniView {
	return AlumniView{
		ID:               a.ID,
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Email:            a.Email,
		Mobile:           a.Mobile,
		YearOfJoining:    a.YearOfJoining,
		YearOfLeaving:    a.YearOfLeaving,
		ClassOfJoining:   a.ClassOfJoining,
		LastClassStudied: a.LastClassStudied,
		LastHouse:        a.LastHouse,
		City:             a.City,
		State:            a.State,
		Country:          a.Country,
		Profession:       a.Profession,
		Organization:     a.Organization,
		Status:           string(a.Status),
		MembershipID:     a.MembershipID,
		CreatedAt:        a.CreatedAt,
		ApprovedAt:       a.ApprovedAt,
	}
}

func viewsOf(as []alumni.Alumni) []AlumniView {
	out := make([]AlumniView, 0, len(as))
	for _, a := range as {
		out = append(out, viewOf(a))
	}
	return out
}

func (s *server) register(c *gin.Context) {
	var req alumni.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Malformed registration payload")
		return
	}
	a, err := s.Alumni.Register(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Alumni not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration submitted successfully. You will receive confirmation once approved.",
		"id":      a.ID,
	})
}

func (s *server) listAlumni(c *gin.Context) {
	var f alumni.Filter
	if v := strings.TrimSpace(c.Query("batch")); v != "" {
		batch, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "batch must be a year")
			return
		}
		f.Batch = &batch
	}
	f.Profession = strings.TrimSpace(c.Query("profession"))
	f.City = strings.TrimSpace(c.Query("city"))
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		st, ok := alumni.ParseStatus(v)
		if !ok {
			badRequest(c, "status must be pending, approved or rejected")
			return
		}
		f.Status = &st
	}

	list, err := s.Alumni.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, viewsOf(list))
}

func (s *server) listPending(c *gin.Context) {
	list, err := s.Alumni.ListPending(c.Request.Context())
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, viewsOf(list))
}

func (s *server) listAll(c *gin.Context) {
	list, err := s.Alumni.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, viewsOf(list))
}

func (s *server) approve(c *gin.Context) {
	id, err := s.Alumni.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Alumni not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alumni approved with EHSAS ID: " + id, "ehsas_id": id})
}

func (s *server) reject(c *gin.Context) {
	if err := s.Alumni.Reject(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, "Alumni not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alumni registration rejected"})
}
