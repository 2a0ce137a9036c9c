package api

import (
	"ankachat/internal/auth"
	"ankachat/internal/channel"
	"ankachat/internal/hub"
	"ankachat/internal/middleware"
	"ankachat/internal/server"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Router struct {
	auth     *AuthHandlers
	users    *UserHandlers
	servers  *ServerHandlers
	channels *ChannelHandlers
	messages *MessageHandlers
	ws       *WebSocketHandler
	am       *auth.Middleware
}

func NewRouter(db *gorm.DB, h *hub.Hub) *Router {
	authService := auth.NewService(db)
	return &Router{
		auth:     NewAuthHandlers(db),
		users:    NewUserHandlers(db),
		servers:  NewServerHandlers(db),
		channels: NewChannelHandlers(db),
		messages: NewMessageHandlers(db),
		ws:       NewWebSocketHandler(h, authService, channel.NewService(db), server.NewService(db)),
		am:       auth.NewMiddleware(authService),
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	router.Use(middleware.CORS())

	{
		unprotected := router.Group("/")
		unprotected.Use(middleware.RateLimit(middleware.NewIPRateLimiter(middleware.AuthRateLimit)))
		unprotected.GET("/hc", HealthCheckHandler)
		unprotected.POST("/register", r.auth.RegisterHandler)
		unprotected.POST("/login", r.auth.LoginHandler)
	}

	{
		protected := router.Group("/api")
		protected.Use(middleware.RateLimit(middleware.NewIPRateLimiter(middleware.APIRateLimit)))
		protected.Use(r.am.RequireAuth())

		protected.GET("/users/me", r.users.MeHandler)

		protected.POST("/servers", r.servers.CreateServerHandler)
		protected.GET("/servers", r.servers.ListServersHandler)
		protected.GET("/servers/:id", r.servers.GetServerHandler)
		protected.PUT("/servers/:id", r.servers.UpdateServerHandler)
		protected.DELETE("/servers/:id", r.servers.DeleteServerHandler)
		protected.POST("/servers/:id/members", r.servers.JoinServerHandler)
		protected.DELETE("/servers/:id/members", r.servers.LeaveServerHandler)
		protected.GET("/servers/:id/channels", r.channels.ListChannelsHandler)

		protected.POST("/channels", r.channels.CreateChannelHandler)
		protected.GET("/channels/:id", r.channels.GetChannelHandler)
		protected.PUT("/channels/:id", r.channels.UpdateChannelHandler)
		protected.DELETE("/channels/:id", r.channels.DeleteChannelHandler)
		protected.GET("/channels/:id/messages", r.messages.ListMessagesHandler)

		protected.POST("/messages", r.messages.CreateMessageHandler)
		protected.DELETE("/messages/:id", r.messages.DeleteMessageHandler)
	}

	// Websocket endpoints authenticate via the token query parameter; the
	// close-code contract replaces HTTP statuses once the socket is up.
	router.GET("/ws/chat/:id", r.ws.ChatSocketHandler)
	router.GET("/ws/voice/:id", r.ws.VoiceSocketHandler)
}

func HealthCheckHandler(c *gin.Context) {
	c.String(200, "Running")
}
