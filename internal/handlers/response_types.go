package handlers

import (
	"github.com/unitwise/unitwise/internal/agent"
	"github.com/unitwise/unitwise/internal/domains/user"
	"github.com/unitwise/unitwise/internal/types"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// RegisterResponse represents the response for user registration
type RegisterResponse struct {
	Message string            `json:"message" example:"User registered successfully"`
	User    user.UserResponse `json:"user"`
}

// LoginResponse represents the response for user login
type LoginResponse struct {
	Message string            `json:"message" example:"Login successful"`
	User    user.UserResponse `json:"user"`
	Tokens  user.AuthTokens   `json:"tokens"`
}

// RefreshTokenResponse represents the response for token refresh
type RefreshTokenResponse struct {
	Message string          `json:"message" example:"Token refreshed successfully"`
	Tokens  user.AuthTokens `json:"tokens"`
}

// ProfileResponse represents the response for getting user profile
type ProfileResponse struct {
	User user.UserResponse `json:"user"`
}

// UpdateProfileResponse represents the response for updating user profile
type UpdateProfileResponse struct {
	Message string            `json:"message" example:"Profile updated successfully"`
	User    user.UserResponse `json:"user"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"jwt-refresh-token-here"`
}

type MessageResponse struct {
	Message types.Message `json:"message"`
}

// ConversationResponse represents the response for getting conversation
type ConversationResponse struct {
	Conversation types.Conversation `json:"conversation"`
}

// AgentStateResponse reports the conversation's accumulated agent state
type AgentStateResponse struct {
	State agent.AgentState `json:"state"`
}

// ConversionsResponse lists recorded conversions for a conversation
type ConversionsResponse struct {
	Conversions []types.ConversionRecord `json:"conversions"`
	Count       int                      `json:"count" example:"3"`
}

// ToolsResponse lists the registered conversion tools
type ToolsResponse struct {
	Tools []toolsystem.ToolDescriptor `json:"tools"`
}
