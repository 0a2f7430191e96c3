package dto

type AssistantTurn struct {
	Role    string `json:"role"`
	Content string `json:"content" validate:"max=8000"`
}

// AssistantRequest carries the new question plus the conversation so far.
// Turns with roles other than user and assistant are dropped.
type AssistantRequest struct {
	Message string          `json:"message" validate:"required,max=4000"`
	History []AssistantTurn `json:"history" validate:"max=100,dive"`
}

type AssistantResponse struct {
	Reply string `json:"reply"`
}
