package routes

import (
	"github.com/driftzo/echoroom-backend/internal/handler"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler for route registration
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	ChatRoom     *handler.ChatRoomHandler
	Forum        *handler.ForumHandler
	Event        *handler.EventHandler
	WS           *handler.WSHandler
}

// Setup registers all API routes
func Setup(r *gin.Engine, h *Handlers, jwtManager *jwt.Manager) {
	auth := middleware.JWTAuth(jwtManager)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/send-code", h.Auth.SendCode)
			authGroup.POST("/verify-code", h.Auth.VerifyCode)
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", auth, h.Auth.Logout)
			authGroup.GET("/me", auth, h.Auth.Me)
		}

		users := api.Group("/users", auth)
		{
			users.GET("/me", h.User.GetProfile)
			users.PUT("/me", h.User.UpdateProfile)
			users.GET("/search", h.User.Search)
			users.GET("/:id", h.User.GetUser)
		}

		conversations := api.Group("/conversations", auth)
		{
			conversations.GET("", h.Conversation.List)
			conversations.POST("", h.Conversation.Start)
			conversations.GET("/:id/messages", h.Conversation.GetMessages)
			conversations.POST("/:id/messages", h.Conversation.SendMessage)
			conversations.POST("/:id/messages/:messageId/react", h.Conversation.React)
			conversations.PATCH("/:id/archive", h.Conversation.SetArchived)
			conversations.PATCH("/:id/theme", h.Conversation.SetTheme)
			conversations.POST("/:id/clear", h.Conversation.Clear)
			conversations.DELETE("/:id", h.Conversation.Delete)
		}

		rooms := api.Group("/chat/rooms", auth)
		{
			rooms.GET("", h.ChatRoom.List)
			rooms.POST("", h.ChatRoom.Create)
			rooms.GET("/mine", h.ChatRoom.ListMine)
			rooms.GET("/:id", h.ChatRoom.Get)
			rooms.PUT("/:id", h.ChatRoom.Update)
			rooms.DELETE("/:id", h.ChatRoom.Delete)
			rooms.POST("/:id/join", h.ChatRoom.Join)
			rooms.POST("/:id/leave", h.ChatRoom.Leave)
			rooms.POST("/:id/kick/:userId", h.ChatRoom.Kick)
			rooms.GET("/:id/messages", h.ChatRoom.GetMessages)
			rooms.POST("/:id/messages", h.ChatRoom.SendMessage)
			rooms.POST("/:id/messages/:messageId/react", h.ChatRoom.React)
			rooms.DELETE("/:id/messages/:messageId", h.ChatRoom.DeleteMessage)
			rooms.PATCH("/:id/archive", h.ChatRoom.SetArchived)
			rooms.PATCH("/:id/theme", h.ChatRoom.SetTheme)
			rooms.POST("/:id/clear", h.ChatRoom.Clear)
		}

		forum := api.Group("/forum", auth)
		{
			forum.GET("/categories", h.Forum.Categories)
			forum.GET("/posts", h.Forum.ListPosts)
			forum.POST("/posts", h.Forum.CreatePost)
			forum.GET("/posts/:id", h.Forum.GetPost)
			forum.POST("/posts/:id/comments", h.Forum.AddComment)
			forum.POST("/posts/:id/upvote", h.Forum.UpvotePost)
			forum.POST("/comments/:id/upvote", h.Forum.UpvoteComment)
		}

		events := api.Group("/events", auth)
		{
			events.GET("", h.Event.List)
			events.POST("", h.Event.Create)
			events.GET("/mine", h.Event.ListMine)
			events.GET("/:id", h.Event.Get)
			events.PUT("/:id", h.Event.Update)
			events.DELETE("/:id", h.Event.Delete)
			events.POST("/:id/join", h.Event.Join)
			events.POST("/:id/leave", h.Event.Leave)
			events.GET("/:id/participants", h.Event.Participants)
			events.DELETE("/:id/participants/:userId", h.Event.RemoveParticipant)
			events.POST("/:id/react", h.Event.React)
			events.GET("/:id/messages", h.Event.GetMessages)
			events.POST("/:id/messages", h.Event.SendMessage)
		}
	}

	r.GET("/ws", auth, h.WS.Serve)
}
