package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargegrid/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// ErrLoginExists indicates a duplicate login name.
var ErrLoginExists = errors.New("login name already exists")

// UserRepository handles CRUD for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	user.LoginName = strings.TrimSpace(user.LoginName)
	const query = `
		INSERT INTO users (login_name, password_hash, is_admin, public_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING user_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.LoginName,
		user.PasswordHash,
		user.IsAdmin,
		user.PublicID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLoginExists
		}
		return err
	}
	return nil
}

// GetByID fetches a user by internal id.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.UserAccount, error) {
	const query = `
		SELECT user_id, login_name, password_hash, is_admin, public_id, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// GetByLogin fetches a user by login name, case-insensitively.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.UserAccount, error) {
	const query = `
		SELECT user_id, login_name, password_hash, is_admin, public_id, created_at, updated_at
		FROM users
		WHERE LOWER(login_name) = LOWER($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, strings.TrimSpace(login)))
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.UserAccount, error) {
	var user models.UserAccount
	err := row.Scan(
		&user.ID,
		&user.LoginName,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.PublicID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all accounts ordered by login name, each annotated with the
// id of its owned charge tag when one is assigned.
func (r *UserRepository) List(ctx context.Context) ([]models.UserAccount, error) {
	const query = `
		SELECT u.user_id, u.login_name, u.password_hash, u.is_admin, u.public_id, u.created_at, u.updated_at,
		       ct.tag_id
		FROM users u
		LEFT JOIN charge_tags ct ON ct.user_account_id = u.user_id
		ORDER BY u.login_name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserAccount
	for rows.Next() {
		var user models.UserAccount
		if err := rows.Scan(
			&user.ID,
			&user.LoginName,
			&user.PasswordHash,
			&user.IsAdmin,
			&user.PublicID,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.TagID,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists login name, password hash and admin flag changes.
func (r *UserRepository) Update(ctx context.Context, user *models.UserAccount) error {
	const query = `
		UPDATE users
		SET login_name = $2,
		    password_hash = $3,
		    is_admin = $4,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		strings.TrimSpace(user.LoginName),
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return ErrLoginExists
		}
		return err
	}
	return nil
}

// Delete removes a user account. Assignment rows cascade in the schema.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM users WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
