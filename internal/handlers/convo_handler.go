package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unitwise/unitwise/internal/domains/conversation"
	"github.com/unitwise/unitwise/internal/domains/user"
	"github.com/unitwise/unitwise/internal/types"
	"github.com/unitwise/unitwise/pkg/Logger"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

type ConversationHandler struct {
	convoService conversation.ConversationService
	registry     toolsystem.Registry
	logger       *Logger.Logger
}

func NewConvoHandler(
	convoService conversation.ConversationService,
	registry toolsystem.Registry,
	logger *Logger.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		convoService: convoService,
		registry:     registry,
		logger:       logger,
	}
}

// ProcessMessage runs one conversion agent turn
// @Summary Process user message and generate a response
// @Description Processes a user message through the conversion agent and returns the reply, executing conversion tools as needed
// @Tags Conversation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body types.CreateMessage true "User message data"
// @Success 201 {object} MessageResponse "Agent response message"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 422 {object} ErrorResponse "Conversation step limit exceeded"
// @Failure 500 {object} ErrorResponse "Internal server error or couldn't process message"
// @Router /conversation/message [post]
func (h *ConversationHandler) ProcessMessage(c *gin.Context) {
	UserInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	var usrMsg types.CreateMessage
	if err := c.ShouldBindJSON(&usrMsg); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.convoService.ProcessMsg(
		c,
		UserInfo.UserID,
		usrMsg.ToMessage(UserInfo.UserID),
	)
	if err != nil {
		switch err {
		case conversation.ErrStepLimit:
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "conversation step limit exceeded, rephrase and try again"})
		case conversation.ErrProcMsg:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "couldn't process message, try later!"})
		default:
			h.logger.Errorf("process msg error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: *resp,
	})
}

// RetrieveConversation gets user's conversation history
// @Summary Retrieve user conversation
// @Description Retrieves the conversation history for the authenticated user
// @Tags Conversation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ConversationResponse "User conversation data"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /conversation [get]
func (h *ConversationHandler) RetrieveConversation(c *gin.Context) {
	UserInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	conv, err := h.convoService.RetrieveConversation(c, UserInfo.UserID)
	if err != nil {
		h.logger.Errorf("retrieve conversation error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ConversationResponse{
		Conversation: *conv,
	})
}

// GetAgentState reports the conversation's accumulated agent state
// @Summary Get agent state
// @Description Returns tool call history, errors and the last conversion result for the authenticated user's conversation
// @Tags Conversation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AgentStateResponse "Current agent state"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Router /conversation/state [get]
func (h *ConversationHandler) GetAgentState(c *gin.Context) {
	UserInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AgentStateResponse{
		State: h.convoService.AgentStateFor(UserInfo.UserID),
	})
}

// ListConversions lists recorded conversions
// @Summary List conversion history
// @Description Returns the stored conversion records of the authenticated user's conversation, newest first
// @Tags Conversation
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records to return" default(50)
// @Success 200 {object} ConversionsResponse "Conversion records"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /conversation/conversions [get]
func (h *ConversationHandler) ListConversions(c *gin.Context) {
	UserInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	recs, err := h.convoService.ListConversions(c, UserInfo.UserID, limit)
	if err != nil {
		h.logger.Errorf("list conversions error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ConversionsResponse{
		Conversions: recs,
		Count:       len(recs),
	})
}

// ListTools lists the registered conversion tools
// @Summary List available tools
// @Description Returns name and description of every registered conversion tool, in registry order
// @Tags Conversation
// @Produce json
// @Success 200 {object} ToolsResponse "Registered tools"
// @Router /tools [get]
func (h *ConversationHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, ToolsResponse{
		Tools: h.registry.Descriptors(),
	})
}

// RegisterConversationRoutes registers all conversation-related routes
func (h *ConversationHandler) RegisterConversationRoutes(r *gin.RouterGroup, userService user.UserService) {
	r.GET("/tools", h.ListTools)

	// Protected routes (authentication required)
	protected := r.Group("/conversation")
	protected.Use(AuthMiddleware(userService, h.logger))
	{
		protected.POST("/message", h.ProcessMessage)
		protected.GET("/state", h.GetAgentState)
		protected.GET("/conversions", h.ListConversions)
		protected.GET("", h.RetrieveConversation)
	}
}
