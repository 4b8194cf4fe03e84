package dto

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Provider string `json:"provider" validate:"omitempty,oneof=openai codegpt gemini"`
	Message  string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Provider string        `json:"provider"`
	Response string        `json:"response"`
	History  []ChatMessage `json:"history"`
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Available bool   `json:"available"`
}

type OpenAIChatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type OpenAIChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type CodeGPTRequest struct {
	Prompt string `json:"prompt"`
}

type CodeGPTResponse struct {
	Response string `json:"response"`
}

type GeminiAPIRequest struct {
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Contents          []Content `json:"contents"`
}

type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}
