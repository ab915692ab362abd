package repository

import (
	"errors"

	"github.com/secureweb/auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned by Create when the storage-level
	// uniqueness constraint on username rejects the insert. It is the
	// authoritative duplicate-registration signal; the pre-insert
	// existence check only provides the friendlier fast path.
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines the persistence contract for user accounts.
// Implementations canonicalize username/email before querying.
type UserRepository interface {
	Create(u *entity.User) error
	GetByUsername(username string) (*entity.User, error)
	GetByUsernameAndEmail(username, email string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
}
