package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/icaliwag/pasokit/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("user repository: user not found")
	ErrDuplicateEmail = errors.New("user repository: email already taken")
	ErrQueryFailed    = errors.New("user repository: query failed")
)

type Repository struct {
	db db.Executor
}

func NewRepository(dbExec db.Executor) *Repository {
	return &Repository{db: dbExec}
}

// conn returns the ongoing transaction when one is carried in the context,
// the base executor otherwise.
func (r *Repository) conn(ctx context.Context) db.Executor {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

const queryUserCreate = `
INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at
`

// Create inserts a new user with a fresh ID and is_active false. A taken
// email yields ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	u := User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
	}
	u.ID = uuid.NewString()

	row := r.conn(ctx).QueryRowContext(ctx, queryUserCreate, u.ID, u.Username, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("%w: create user with email %s: %v", ErrQueryFailed, params.Email, err)
	}
	return u, nil
}

const userColumns = `id, username, email, password_hash, is_active, is_admin,
verification_token, token_expiry, created_at, updated_at`

const queryUserFindByEmail = `
SELECT ` + userColumns + ` FROM users
WHERE email = $1
LIMIT 1
`

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, queryUserFindByEmail, email)
	return scanUser(row, "email "+email)
}

const queryUserFind = `
SELECT ` + userColumns + ` FROM users
WHERE id = $1
LIMIT 1
`

func (r *Repository) Find(ctx context.Context, userID string) (*User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, queryUserFind, userID)
	return scanUser(row, "id "+userID)
}

const queryUserFindByToken = `
SELECT ` + userColumns + ` FROM users
WHERE verification_token = $1
LIMIT 1
`

// FindByVerificationToken looks a user up by exact token match.
func (r *Repository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, queryUserFindByToken, token)
	return scanUser(row, "verification token")
}

const queryUserSetToken = `
UPDATE users
SET verification_token = $1, token_expiry = $2, updated_at = now()
WHERE id = $3
`

// SetVerificationToken stores a new token pair, overwriting any live one.
func (r *Repository) SetVerificationToken(ctx context.Context, userID, token string, expiry time.Time) error {
	return r.exec(ctx, queryUserSetToken, token, expiry, userID)
}

const queryUserResetPassword = `
UPDATE users
SET password_hash = $1, verification_token = NULL, token_expiry = NULL, updated_at = now()
WHERE id = $2
`

// ResetPassword swaps the password hash and clears the token pair in one
// statement, keeping the set-or-cleared-together invariant.
func (r *Repository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	return r.exec(ctx, queryUserResetPassword, passwordHash, userID)
}

const queryUserActivate = `
UPDATE users
SET is_active = true, verification_token = NULL, token_expiry = NULL, updated_at = now()
WHERE id = $1
`

func (r *Repository) Activate(ctx context.Context, userID string) error {
	return r.exec(ctx, queryUserActivate, userID)
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute update: %v", ErrQueryFailed, err)
	}

	numRows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: get rows affected: %v", ErrQueryFailed, err)
	}

	if numRows == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(row *sql.Row, desc string) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsAdmin,
		&u.VerificationToken, &u.TokenExpiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user with %s: %v", ErrQueryFailed, desc, err)
	}
	return &u, nil
}
