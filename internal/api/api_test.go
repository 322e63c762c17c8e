package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ehsas/internal/admin"
	"ehsas/internal/alumni"
	"ehsas/internal/auth"
	"ehsas/internal/clock"
	"ehsas/internal/cloudinary"
	"ehsas/internal/content"
	"ehsas/internal/notify"
	"ehsas/internal/sequence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct horse"
)

type harness struct {
	t        *testing.T
	router   *gin.Engine
	clk      *clock.Manual
	issuer   *auth.Issuer
	alumni   *alumni.MemoryStore
	content  *content.MemoryStore
	uploader *fakeUploader
}

type fakeUploader struct {
	err      error
	gotKind  cloudinary.Kind
	gotBytes []byte
	gotName  string
	gotData  string
}

func (u *fakeUploader) UploadDataURL(_ context.Context, kind cloudinary.Kind, data string) (*cloudinary.UploadResult, error) {
	u.gotKind, u.gotData = kind, data
	if u.err != nil {
		return nil, u.err
	}
	return &cloudinary.UploadResult{PublicID: "ehsas/b64", SecureURL: "https://cdn.example/b64.png", Width: 1, Height: 2, Bytes: 3}, nil
}

func (u *fakeUploader) UploadFile(_ context.Context, kind cloudinary.Kind, data []byte, filename string) (*cloudinary.UploadResult, error) {
	u.gotKind, u.gotBytes, u.gotName = kind, data, filename
	if u.err != nil {
		return nil, u.err
	}
	return &cloudinary.UploadResult{PublicID: "ehsas/file", SecureURL: "https://cdn.example/file.png", Bytes: len(data)}, nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		clk:      clock.NewManual(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		alumni:   alumni.NewMemoryStore(),
		content:  content.NewMemoryStore(),
		uploader: &fakeUploader{},
	}
	log := zerolog.Nop()
	h.issuer = auth.NewIssuer("test-secret", "ehsas-test", time.Hour, h.clk)

	admins := admin.NewService(admin.NewMemoryStore(), h.issuer, h.clk, log)
	_, err := admins.Seed(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	recorder := notify.NewRecorder(notify.NewMemoryStore(), h.clk)
	registry := alumni.NewService(alumni.Deps{
		Store:      h.alumni,
		Sequencer:  sequence.NewMemory(),
		Recorder:   recorder,
		Mailer:     notify.NewLogMailer(log),
		Clock:      h.clk,
		Log:        log,
		AdminInbox: "ehsas@eldenheights.org",
	})

	h.router = NewRouter(Options{APIPrefix: "/api", CORSOrigins: []string{"*"}, RateLimitPerMin: 1000}, Deps{
		Admins:        admins,
		Issuer:        h.issuer,
		Alumni:        registry,
		Notifications: recorder,
		Content:       content.NewService(h.content, h.clk),
		Uploader:      h.uploader,
		Health:        map[string]HealthCheck{"db": func(context.Context) bool { return true }},
		Log:           log,
	})
	return h
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login() string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(h.t, w, &resp)
	return resp.Token
}

func registration(email string, batch int) gin.H {
	return gin.H{
		"first_name": "Asha", "last_name": "Rao", "email": email, "mobile": "9876543210",
		"year_of_joining": batch - 12, "year_of_leaving": batch,
		"class_of_joining": "1", "last_class_studied": "12", "last_house": "Tagore",
		"full_address": "12 MG Road", "city": "Pune", "pincode": "411001",
		"state": "Maharashtra", "country": "India", "profession": "Engineer",
	}
}

func (h *harness) register(email string, batch int) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/alumni/register", "", registration(email, batch))
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	decode(h.t, w, &resp)
	return resp.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	decode(t, w, &body)
	return body.Error, body.Detail
}

func TestRoot(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"EHSAS API - Elden Heights School Alumni Society"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	w := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":true}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ID, Email, Role, Token string
	}
	decode(t, w, &resp)
	assert.Equal(t, adminEmail, resp.Email)
	assert.Equal(t, "admin", resp.Role)
	claims, err := h.issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.ID)

	for _, body := range []gin.H{
		{"email": adminEmail, "password": "wrong"},
		{"email": "ghost@example.com", "password": adminPassword},
	} {
		w := h.do(http.MethodPost, "/api/auth/admin/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		code, detail := errorBody(t, w)
		assert.Equal(t, "INVALID_CREDENTIALS", code)
		assert.Equal(t, "Invalid credentials", detail)
	}

	w = h.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": adminEmail})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	id := h.register("asha@example.com", 2019)
	assert.NotEmpty(t, id)

	w := h.do(http.MethodPost, "/api/alumni/register", "", registration("asha@example.com", 2019))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, detail := errorBody(t, w)
	assert.Equal(t, "DUPLICATE_EMAIL", code)
	assert.Equal(t, "Email already registered", detail)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	body := registration("asha@example.com", 2019)
	body["email"] = "not-an-email"
	w := h.do(http.MethodPost, "/api/alumni/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, detail := errorBody(t, w)
	assert.Equal(t, "VALIDATION_ERROR", code)
	assert.Contains(t, detail, "email")

	body = registration("asha@example.com", 2019)
	body["year_of_leaving"] = "twenty"
	w = h.do(http.MethodPost, "/api/alumni/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryDefaultsToApproved(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	approved := h.register("a@example.com", 2019)
	pending := h.register("b@example.com", 2019)
	w := h.do(http.MethodPut, "/api/alumni/"+approved+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/alumni", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, approved, list[0]["id"])
	assert.Equal(t, "EH190001", list[0]["ehsas_id"])
	assert.NotContains(t, list[0], "full_address")
	assert.NotContains(t, list[0], "pincode")

	// any status may be read without a token
	w = h.do(http.MethodGet, "/api/alumni?status=pending", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, pending, list[0]["id"])
	assert.Nil(t, list[0]["ehsas_id"])

	w = h.do(http.MethodGet, "/api/alumni?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(http.MethodGet, "/api/alumni?batch=nineteen", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryFilters(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	for _, tc := range []struct {
		email, profession, city string
		batch                   int
	}{
		{"a@example.com", "Software Engineer", "Pune", 2019},
		{"b@example.com", "Doctor", "Mumbai", 2019},
		{"c@example.com", "Civil Engineer", "Pune", 2015},
	} {
		body := registration(tc.email, tc.batch)
		body["profession"], body["city"] = tc.profession, tc.city
		w := h.do(http.MethodPost, "/api/alumni/register", "", body)
		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct{ ID string }
		decode(t, w, &resp)
		require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/api/alumni/"+resp.ID+"/approve", token, nil).Code)
	}

	count := func(query string) int {
		w := h.do(http.MethodGet, "/api/alumni"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []AlumniView
		decode(t, w, &list)
		return len(list)
	}
	assert.Equal(t, 3, count(""))
	assert.Equal(t, 2, count("?batch=2019"))
	assert.Equal(t, 2, count("?profession=engineer"))
	assert.Equal(t, 2, count("?city=PUNE"))
	assert.Equal(t, 1, count("?city=pune&batch=2015"))
}

func TestApprovalSequenceAndIdempotence(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	first := h.register("a@example.com", 2019)
	second := h.register("b@example.com", 2019)

	approve := func(id string) (int, string, string) {
		w := h.do(http.MethodPut, "/api/alumni/"+id+"/approve", token, nil)
		var resp struct {
			Message string `json:"message"`
			EhsasID string `json:"ehsas_id"`
		}
		if w.Code == http.StatusOK {
			decode(t, w, &resp)
		}
		return w.Code, resp.Message, resp.EhsasID
	}

	code, msg, id := approve(first)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "EH190001", id)
	assert.Equal(t, "Alumni approved with EHSAS ID: EH190001", msg)

	_, _, id = approve(second)
	assert.Equal(t, "EH190002", id)

	_, _, id = approve(first)
	assert.Equal(t, "EH190001", id)

	code, _, _ = approve("does-not-exist")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRejectKeepsMembershipID(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	id := h.register("a@example.com", 2019)
	require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/api/alumni/"+id+"/approve", token, nil).Code)

	w := h.do(http.MethodPut, "/api/alumni/"+id+"/reject", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Alumni registration rejected"}`, w.Body.String())

	a, err := h.alumni.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, alumni.StatusRejected, a.Status)
	require.NotNil(t, a.MembershipID)
	assert.Equal(t, "EH190001", *a.MembershipID)

	w = h.do(http.MethodPut, "/api/alumni/missing/reject", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, detail := errorBody(t, w)
	assert.Equal(t, "Alumni not found", detail)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	id := h.register("a@example.com", 2019)

	expiredIssuer := auth.NewIssuer("test-secret", "ehsas-test", time.Minute, clock.NewManual(h.clk.Now().Add(-time.Hour)))
	expired, err := expiredIssuer.Issue(auth.Identity{ID: "x", Email: adminEmail, Role: auth.RoleAdmin})
	require.NoError(t, err)
	memberTok, err := h.issuer.Issue(auth.Identity{ID: "m", Email: "m@example.com", Role: "member"})
	require.NoError(t, err)
	foreign, err := auth.NewIssuer("other-secret", "ehsas-test", time.Hour, h.clk).Issue(auth.Identity{ID: "x", Role: auth.RoleAdmin})
	require.NoError(t, err)

	tokens := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not.a.jwt", http.StatusUnauthorized},
		{"expired", expired.Value, http.StatusUnauthorized},
		{"foreign", foreign.Value, http.StatusUnauthorized},
		{"wrong role", memberTok.Value, http.StatusForbidden},
	}
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/alumni/pending"},
		{http.MethodGet, "/api/alumni/all"},
		{http.MethodPut, "/api/alumni/" + id + "/approve"},
		{http.MethodPut, "/api/alumni/" + id + "/reject"},
		{http.MethodPost, "/api/events"},
		{http.MethodPut, "/api/events/x"},
		{http.MethodDelete, "/api/events/x"},
		{http.MethodGet, "/api/spotlight/all"},
		{http.MethodPost, "/api/spotlight"},
		{http.MethodPut, "/api/spotlight/x"},
		{http.MethodDelete, "/api/spotlight/x"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/notifications"},
		{http.MethodPut, "/api/admin/notifications/x/read"},
		{http.MethodPost, "/api/uploads"},
	}
	for _, tok := range tokens {
		for _, rt := range routes {
			w := h.do(rt.method, rt.path, tok.token, gin.H{})
			assert.Equal(t, tok.status, w.Code, "%s %s with %s token", rt.method, rt.path, tok.name)
		}
	}

	a, err := h.alumni.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, alumni.StatusPending, a.Status)
	assert.Nil(t, a.MembershipID)
}

func TestEventsCRUD(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	event := gin.H{
		"title": "Reunion", "description": "Annual", "event_type": "reunion",
		"date": "2024-12-20", "time": "18:00", "location": "Campus",
	}
	w := h.do(http.MethodPost, "/api/events", token, event)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created content.Event
	decode(t, w, &created)
	assert.True(t, created.IsActive)

	hidden := gin.H{
		"title": "Draft", "description": "Later", "event_type": "webinar",
		"date": "2025-01-01", "time": "10:00", "location": "Online", "is_active": false,
	}
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/events", token, hidden).Code)

	var events []content.Event
	decode(t, h.do(http.MethodGet, "/api/events", "", nil), &events)
	assert.Len(t, events, 1)
	decode(t, h.do(http.MethodGet, "/api/events?active_only=false", "", nil), &events)
	assert.Len(t, events, 2)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/events?active_only=maybe", "", nil).Code)

	event["title"] = "Grand Reunion"
	w = h.do(http.MethodPut, "/api/events/"+created.ID, token, event)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Event updated"}`, w.Body.String())

	before, _ := h.content.ListEvents(context.Background(), false, 0)
	w = h.do(http.MethodPut, "/api/events/missing", token, event)
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, detail := errorBody(t, w)
	assert.Equal(t, "Event not found", detail)
	after, _ := h.content.ListEvents(context.Background(), false, 0)
	assert.Equal(t, before, after)

	event["event_type"] = "party"
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/api/events/"+created.ID, token, event).Code)

	w = h.do(http.MethodDelete, "/api/events/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Event deleted"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/events/"+created.ID, token, nil).Code)
}

func TestSpotlightCRUD(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	profile := gin.H{
		"name": "Dr. Mehta", "batch": "2005", "profession": "Surgeon",
		"achievement": "Rural clinic", "category": "doctor",
	}
	w := h.do(http.MethodPost, "/api/spotlight", token, profile)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created content.Spotlight
	decode(t, w, &created)

	profile["is_featured"] = false
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/spotlight", token, profile).Code)

	var list []content.Spotlight
	decode(t, h.do(http.MethodGet, "/api/spotlight", "", nil), &list)
	assert.Len(t, list, 1)
	decode(t, h.do(http.MethodGet, "/api/spotlight/all", token, nil), &list)
	assert.Len(t, list, 2)

	before, _ := h.content.ListSpotlight(context.Background(), false, 0)
	w = h.do(http.MethodPut, "/api/spotlight/missing", token, profile)
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, detail := errorBody(t, w)
	assert.Equal(t, "Spotlight alumni not found", detail)
	after, _ := h.content.ListSpotlight(context.Background(), false, 0)
	assert.Equal(t, before, after)

	w = h.do(http.MethodPut, "/api/spotlight/"+created.ID, token, profile)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Spotlight alumni updated"}`, w.Body.String())
	decode(t, h.do(http.MethodGet, "/api/spotlight", "", nil), &list)
	assert.Empty(t, list)

	w = h.do(http.MethodDelete, "/api/spotlight/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Spotlight alumni deleted"}`, w.Body.String())
}

func TestStats(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	batches := []int{2010, 2011, 2012, 2013, 2014, 2015, 2016, 2017, 2018, 2019, 2020, 2020}
	for i, batch := range batches {
		id := h.register(fmt.Sprintf("a%d@example.com", i), batch)
		require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/api/alumni/"+id+"/approve", token, nil).Code)
	}
	h.register("pending@example.com", 2020)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/events", token, gin.H{
		"title": "Meetup", "description": "d", "event_type": "meetup", "date": "d", "time": "t", "location": "l",
	}).Code)

	w := h.do(http.MethodGet, "/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st statsResponse
	decode(t, w, &st)
	assert.Equal(t, len(batches), st.TotalAlumni)
	assert.Equal(t, 1, st.PendingRegistrations)
	assert.Equal(t, 1, st.TotalEvents)
	require.Len(t, st.BatchDistribution, 10)
	assert.Equal(t, alumni.BatchCount{Batch: 2020, Count: 2}, st.BatchDistribution[0])
	assert.Equal(t, 2011, st.BatchDistribution[9].Batch)
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	h.register("first@example.com", 2019)
	h.clk.Advance(time.Minute)
	h.register("second@example.com", 2019)

	w := h.do(http.MethodGet, "/api/admin/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []notify.Notification
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Contains(t, list[0].Message, "second@example.com")
	assert.Equal(t, "registration", list[0].Type)
	assert.False(t, list[0].IsRead)

	w = h.do(http.MethodPut, "/api/admin/notifications/"+list[0].ID+"/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notification marked as read"}`, w.Body.String())

	decode(t, h.do(http.MethodGet, "/api/admin/notifications", token, nil), &list)
	assert.True(t, list[0].IsRead)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/api/admin/notifications/nope/read", token, nil).Code)
}

func TestUploads(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.login()

	w := h.do(http.MethodPost, "/api/uploads", token, gin.H{"data": "data:image/png;base64,AAAA"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://cdn.example/b64.png","public_id":"ehsas/b64","width":1,"height":2,"bytes":3}`, w.Body.String())
	assert.Equal(t, "data:image/png;base64,AAAA", h.uploader.gotData)
	assert.Equal(t, cloudinary.KindEvent, h.uploader.gotKind)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("PNG"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/uploads?kind=spotlight", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "photo.png", h.uploader.gotName)
	assert.Equal(t, []byte("PNG"), h.uploader.gotBytes)
	assert.Equal(t, cloudinary.KindSpotlight, h.uploader.gotKind)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/uploads?kind=avatars", token, gin.H{"data": "x"}).Code)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/uploads", token, gin.H{}).Code)

	h.uploader.err = cloudinary.ErrNotImage
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/uploads", token, gin.H{"data": "x"}).Code)

	h.uploader.err = errors.New("cloud down")
	assert.Equal(t, http.StatusBadGateway, h.do(http.MethodPost, "/api/uploads", token, gin.H{"data": "x"}).Code)
}

func TestUploadsNotConfigured(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	issuer := auth.NewIssuer("s", "i", time.Hour, clk)
	r := NewRouter(Options{}, Deps{Issuer: issuer, Log: zerolog.Nop()})

	tok, err := issuer.Issue(auth.Identity{ID: "a", Role: auth.RoleAdmin})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader([]byte(`{"data":"x"}`)))
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/alumni/register", nil)
	req.Header.Set("Origin", "https://ehsas.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ehsas.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
