package gamedto

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentStage int    `json:"current_stage"`
}

// Question deliberately omits the canonical answer.
type Question struct {
	ID     string `json:"id"`
	Stage  int    `json:"stage"`
	Prompt string `json:"prompt"`
}

type JoinResponse struct {
	User     User      `json:"user"`
	Question *Question `json:"question"`
}

type AttemptResponse struct {
	Correct  bool      `json:"correct"`
	Victory  bool      `json:"victory"`
	Question *Question `json:"question"`
	Message  string    `json:"message,omitempty"`
}

type ModelOption struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Thinking    bool   `json:"thinking"`
}

type ModelsResponse struct {
	Default string        `json:"default"`
	Options []ModelOption `json:"options"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
