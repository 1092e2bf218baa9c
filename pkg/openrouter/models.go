package openrouter

// ChatMessage is one (role, content) pair as sent over the wire. The client
// never holds conversation state; callers pass the full history per call.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the request payload for /chat/completions.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse is the non-streaming response body.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

type Choice struct {
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk is one streaming protocol event carrying an incremental
// content delta.
type StreamChunk struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Choices []DeltaChoice `json:"choices"`
}

type DeltaChoice struct {
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ErrorResponse is the remote error body shape.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}

// Credits reports the key's remaining balance and usage. Balance mirrors
// the limit value as reported by the service.
type Credits struct {
	Balance float64
	Usage   float64
	Limit   float64
}

// Model describes one selectable completion model.
type Model struct {
	ID            string
	Name          string
	Description   string
	PromptPrice   string
	CompletePrice string
	ContextLength int
}

// PopularModels is the curated model list offered to users.
var PopularModels = []Model{
	{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Description: "Anthropic's most intelligent model", PromptPrice: "3.00", CompletePrice: "15.00", ContextLength: 200000},
	{ID: "anthropic/claude-3-opus", Name: "Claude 3 Opus", Description: "Most capable Claude model for complex tasks", PromptPrice: "15.00", CompletePrice: "75.00", ContextLength: 200000},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Fast and efficient Claude model", PromptPrice: "0.25", CompletePrice: "1.25", ContextLength: 200000},
	{ID: "openai/gpt-4-turbo", Name: "GPT-4 Turbo", Description: "OpenAI's most capable model", PromptPrice: "10.00", CompletePrice: "30.00", ContextLength: 128000},
	{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and affordable OpenAI model", PromptPrice: "0.50", CompletePrice: "1.50", ContextLength: 16385},
	{ID: "google/gemini-pro", Name: "Gemini Pro", Description: "Google's advanced AI model", PromptPrice: "0.125", CompletePrice: "0.375", ContextLength: 32760},
	{ID: "google/gemini-flash-1.5", Name: "Gemini Flash 1.5", Description: "Fast and efficient Gemini model", PromptPrice: "0.075", CompletePrice: "0.30", ContextLength: 1000000},
	{ID: "mistralai/mistral-large", Name: "Mistral Large", Description: "Powerful European AI model", PromptPrice: "4.00", CompletePrice: "12.00", ContextLength: 128000},
	{ID: "mistralai/mixtral-8x7b-instruct", Name: "Mixtral 8x7B", Description: "Efficient mixture-of-experts model", PromptPrice: "0.24", CompletePrice: "0.24", ContextLength: 32768},
	{ID: "meta-llama/llama-3-70b-instruct", Name: "Llama 3 70B", Description: "Meta's open-source model", PromptPrice: "0.59", CompletePrice: "0.79", ContextLength: 8192},
}
