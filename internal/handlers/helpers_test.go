package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/middleware"
	"github.com/thereayou/roomboard/internal/rabbitmq"
	"github.com/thereayou/roomboard/internal/services"
	"github.com/thereayou/roomboard/internal/testutil"
)

type testApp struct {
	db     *database.Database
	router *gin.Engine
}

// newTestApp wires real services over sqlite. The X-User header stands in
// for authentication.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := testutil.NewDatabase(t)
	membership := services.NewMembershipService(db)
	notifications := services.NewNotificationService(db, rabbitmq.NewNoop("test"))
	content := services.NewContentService(db, notifications)
	polls := services.NewPollService(db)
	events := services.NewEventService(db)

	home := NewHomeHandler(membership, notifications)
	rooms := NewRoomHandler(membership)
	messages := NewMessageHandler(content, membership)
	pollH := NewPollHandler(polls, membership)
	eventH := NewEventHandler(events, membership)
	users := NewUserHandler(membership)

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-User")); err == nil {
			c.Set(middleware.UserIDKey, id)
		}
		c.Next()
	})
	r.GET("/", home.Dashboard)
	r.POST("/", home.MarkRead)
	r.POST("/create-room/", rooms.CreateRoom)
	r.POST("/update-room/:id/", rooms.UpdateRoom)
	r.GET("/room/:id/", rooms.GetRoom)
	r.POST("/room/:id/", rooms.ResolveRequest)
	r.POST("/room/:id/suspend/", rooms.Suspension)
	r.POST("/room/:id/admins/", rooms.Admins)
	r.POST("/join-room/:id/", rooms.JoinRoom)
	r.POST("/leave-room/:id/", rooms.LeaveRoom)
	r.POST("/delete-room/:id/", rooms.DeleteRoom)
	r.GET("/message/:id/", messages.GetMessage)
	r.POST("/message/:id/", messages.MessageAction)
	r.GET("/create-message/:id/", messages.NewMessageForm)
	r.POST("/create-message/:id/", messages.CreateMessage)
	r.GET("/create-poll/:id/", pollH.NewPollForm)
	r.POST("/create-poll/:id/", pollH.CreatePoll)
	r.GET("/create-choice/:id/", pollH.NewChoiceForm)
	r.POST("/create-choice/:id/", pollH.CreateChoice)
	r.GET("/poll/:id/", pollH.GetPoll)
	r.POST("/poll/:id/", pollH.Vote)
	r.GET("/create-event/:id/", eventH.NewEventForm)
	r.POST("/create-event/:id/", eventH.CreateEvent)
	r.GET("/event/:id/", eventH.GetEvent)
	r.POST("/event/:id/", eventH.Respond)
	r.GET("/user/:id/", users.GetUser)

	return &testApp{db: db, router: r}
}

func (a *testApp) do(t *testing.T, method, path string, user uuid.UUID, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != uuid.Nil {
		req.Header.Set("X-User", user.String())
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
