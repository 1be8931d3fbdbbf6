package gamedto

type JoinRequest struct {
	Name     string `json:"name"`
	StartNew bool   `json:"start_new"`
}

type AttemptRequest struct {
	UserID string `json:"user_id"`
	Answer string `json:"answer"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ModelRunRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}
