package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clientback/internal/models"

	"github.com/jmoiron/sqlx"
)

// ClientRepository defines the client-related database operations.
// Every read and write except Create is scoped by the owner's email inside the query,
// so rows of one user are never loaded on behalf of another.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByUserEmail(ctx context.Context, email string) ([]models.Client, error)
	FindByIdentificationAndUserEmail(ctx context.Context, idType, idNumber, email string) (*models.Client, error)
	FindByIDAndUserEmail(ctx context.Context, id int64, email string) (*models.Client, error)
	ExistsByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error)
	UpdateByUserEmail(ctx context.Context, client *models.Client, email string) error
	DeleteByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error)
}

const clientColumns = `c.id, c.user_id, u.email AS owner_email, c.name, c.surname, c.id_type, c.id_number, c.creation_date, c.modification_date`

type clientRepository struct {
	db SQLExecutor
}

// NewClientRepository creates a Postgres-backed ClientRepository.
func NewClientRepository(db SQLExecutor) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client. UserID must already reference the owner.
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `INSERT INTO clients (user_id, name, surname, id_type, id_number, creation_date, modification_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		client.UserID, client.Name, client.Surname, client.IDType, client.IDNumber,
		client.CreationDate, client.ModificationDate,
	).Scan(&client.ID)
	if err != nil {
		return wrapDBError(err, "creating client")
	}
	return nil
}

func (r *clientRepository) FindByUserEmail(ctx context.Context, email string) ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + `
	          FROM clients c
	          JOIN users u ON u.id = c.user_id
	          WHERE u.email = $1
	          ORDER BY c.id ASC`
	if err := sqlx.SelectContext(ctx, r.db, &clients, query, email); err != nil {
		return nil, wrapDBError(err, "querying clients by owner")
	}
	return clients, nil
}

func (r *clientRepository) FindByIdentificationAndUserEmail(ctx context.Context, idType, idNumber, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + `
	          FROM clients c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.id_type = $1 AND c.id_number = $2 AND u.email = $3`
	if err := sqlx.GetContext(ctx, r.db, client, query, idType, idNumber, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err, "getting client by identification")
	}
	return client, nil
}

func (r *clientRepository) FindByIDAndUserEmail(ctx context.Context, id int64, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + `
	          FROM clients c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.id = $1 AND u.email = $2`
	if err := sqlx.GetContext(ctx, r.db, client, query, id, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err, fmt.Sprintf("getting client by ID %d", id))
	}
	return client, nil
}

func (r *clientRepository) ExistsByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
	            SELECT 1 FROM clients c
	            JOIN users u ON u.id = c.user_id
	            WHERE c.id = $1 AND u.email = $2)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, id, email); err != nil {
		return false, wrapDBError(err, fmt.Sprintf("checking client ID %d", id))
	}
	return exists, nil
}

// UpdateByUserEmail overwrites the mutable fields of an owned client and reloads it.
// A client that is absent or owned by someone else yields ErrNotFound.
func (r *clientRepository) UpdateByUserEmail(ctx context.Context, client *models.Client, email string) error {
	query := `UPDATE clients c SET
	            name = $1, surname = $2, id_type = $3, id_number = $4, modification_date = $5
	          FROM users u
	          WHERE c.id = $6 AND c.user_id = u.id AND u.email = $7
	          RETURNING ` + clientColumns

	err := r.db.QueryRowxContext(ctx, query,
		client.Name, client.Surname, client.IDType, client.IDNumber, client.ModificationDate,
		client.ID, email,
	).StructScan(client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapDBError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	return nil
}

// DeleteByIDAndUserEmail deletes an owned client and reports whether a row was removed.
func (r *clientRepository) DeleteByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error) {
	query := `DELETE FROM clients c
	          USING users u
	          WHERE c.id = $1 AND c.user_id = u.id AND u.email = $2`
	result, err := r.db.ExecContext(ctx, query, id, email)
	if err != nil {
		return false, wrapDBError(err, fmt.Sprintf("deleting client ID %d", id))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, wrapDBError(err, fmt.Sprintf("getting rows affected for deleting client ID %d", id))
	}
	return rowsAffected > 0, nil
}
