// Package session manages registered players and drives the game loop:
// join, answer submission, stage advancement, victory.
package session

import (
	"context"

	"github.com/pkarhu/deduction-api/internal/domain"
)

// Store persists user records.
type Store interface {
	CreateUser(ctx context.Context, name string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUserStage(ctx context.Context, id string, stage int) error
	DeleteUser(ctx context.Context, id string) error
	// FindUserIDByName returns the oldest user with the name, or "".
	FindUserIDByName(ctx context.Context, name string) (string, error)
	Close() error
}

var (
	ErrUnknownUser = errf("unknown user")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
