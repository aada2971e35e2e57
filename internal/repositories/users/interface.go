// Package users stores local accounts for the authentication gate.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/models"
)

type Repository interface {
	// Create returns common.ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, u *models.User) error
	// GetByUsername returns common.ErrNotFound for unknown usernames.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}
