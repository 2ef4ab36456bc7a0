package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clientback/internal/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	DeleteByID(ctx context.Context, id int64) error
}

const userColumns = `id, name, surname, email, password_hash, mobile_phone, creation_date, modification_date`

type userRepository struct {
	db SQLExecutor
}

// NewUserRepository creates a Postgres-backed UserRepository.
func NewUserRepository(db SQLExecutor) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and fills in its generated ID.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, surname, email, password_hash, mobile_phone, creation_date, modification_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		user.Name, user.Surname, user.Email, user.PasswordHash, user.MobilePhone,
		user.CreationDate, user.ModificationDate,
	).Scan(&user.ID)
	if err != nil {
		return wrapDBError(err, "creating user")
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err, fmt.Sprintf("finding user by ID %d", id))
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := sqlx.GetContext(ctx, r.db, user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err, "finding user by email")
	}
	return user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, email); err != nil {
		return false, wrapDBError(err, "checking user email")
	}
	return exists, nil
}

// Update overwrites every mutable column of the user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET
	            name = $1, surname = $2, email = $3, password_hash = $4,
	            mobile_phone = $5, modification_date = $6
	          WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Surname, user.Email, user.PasswordHash,
		user.MobilePhone, user.ModificationDate, user.ID,
	)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("updating user ID %d", user.ID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("getting rows affected for updating user ID %d", user.ID))
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a user; owned clients go with it through ON DELETE CASCADE.
func (r *userRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("deleting user ID %d", id))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("getting rows affected for deleting user ID %d", id))
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
