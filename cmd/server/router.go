package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thereayou/roomboard/internal/handlers"
	"github.com/thereayou/roomboard/internal/middleware"
	"github.com/thereayou/roomboard/internal/observability"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Home    *handlers.HomeHandler
	Room    *handlers.RoomHandler
	Message *handlers.MessageHandler
	Poll    *handlers.PollHandler
	Event   *handlers.EventHandler
	User    *handlers.UserHandler
}

type RouterOptions struct {
	CORSOrigins    []string
	MetricsEnabled bool
}

func NewRouter(h Handlers, authenticator middleware.Authenticator, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	if opts.MetricsEnabled {
		r.Use(observability.HTTPMetricsMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	APIEndpoints(r, h, authenticator)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{"Location", middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func APIEndpoints(r *gin.Engine, h Handlers, authenticator middleware.Authenticator) {
	r.GET("/", middleware.OptionalAuthMiddleware(authenticator), h.Home.Dashboard)

	// Auth endpoints
	r.POST("/register/", h.Auth.Register)
	r.POST("/login/", h.Auth.Login)

	api := r.Group("/", middleware.AuthMiddleware(authenticator))
	{
		api.POST("/", h.Home.MarkRead)
		api.POST("/logout/", h.Auth.Logout)

		api.POST("/create-room/", h.Room.CreateRoom)
		api.POST("/update-room/:id/", h.Room.UpdateRoom)
		api.GET("/room/:id/", h.Room.GetRoom)
		api.POST("/room/:id/", h.Room.ResolveRequest)
		api.POST("/room/:id/suspend/", h.Room.Suspension)
		api.POST("/room/:id/admins/", h.Room.Admins)
		api.POST("/join-room/:id/", h.Room.JoinRoom)
		api.POST("/leave-room/:id/", h.Room.LeaveRoom)
		api.POST("/delete-room/:id/", h.Room.DeleteRoom)

		api.GET("/message/:id/", h.Message.GetMessage)
		api.POST("/message/:id/", h.Message.MessageAction)
		api.GET("/create-message/:id/", h.Message.NewMessageForm)
		api.POST("/create-message/:id/", h.Message.CreateMessage)

		api.GET("/create-poll/:id/", h.Poll.NewPollForm)
		api.POST("/create-poll/:id/", h.Poll.CreatePoll)
		api.GET("/create-choice/:id/", h.Poll.NewChoiceForm)
		api.POST("/create-choice/:id/", h.Poll.CreateChoice)
		api.GET("/poll/:id/", h.Poll.GetPoll)
		api.POST("/poll/:id/", h.Poll.Vote)

		api.GET("/create-event/:id/", h.Event.NewEventForm)
		api.POST("/create-event/:id/", h.Event.CreateEvent)
		api.GET("/event/:id/", h.Event.GetEvent)
		api.POST("/event/:id/", h.Event.Respond)

		api.GET("/user/:id/", h.User.GetUser)
	}
}
