package domain

import "time"

// User is a registered player and their progress through the stages.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CurrentStage int       `json:"current_stage"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Question is one entry of the question bank. Answer holds the canonical
// target and must never be exposed to clients.
type Question struct {
	ID     string
	Stage  int
	Prompt string
	Answer string
}

// App-level stat counters.
const (
	StatCorrectSubmissions = "correct_submissions"
	StatWrongSubmissions   = "wrong_submissions"
)
