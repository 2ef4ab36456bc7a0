package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clientback/internal/models"
	"clientback/internal/repositories"
	"clientback/pkg/utils"
)

// ClientRequest is the body of client create and update calls.
// Lengths match the clients table columns.
type ClientRequest struct {
	Name     string `json:"name" binding:"max=255"`
	Surname  string `json:"surname" binding:"max=255"`
	IDType   string `json:"idType" binding:"required,max=50"`
	IDNumber string `json:"idNumber" binding:"required,max=100"`
}

func (r ClientRequest) normalized() ClientRequest {
	return ClientRequest{
		Name:     strings.TrimSpace(r.Name),
		Surname:  strings.TrimSpace(r.Surname),
		IDType:   strings.TrimSpace(r.IDType),
		IDNumber: strings.TrimSpace(r.IDNumber),
	}
}

// validate reports ErrInvalidClient when the identification is blank after trimming.
func (r ClientRequest) validate() error {
	if r.IDType == "" || r.IDNumber == "" {
		return ErrInvalidClient
	}
	return nil
}

// --- ClientService Interface ---
// Every method is scoped to the principal: clients of other users behave as if absent.
type ClientService interface {
	ListAll(ctx context.Context, principal models.Principal) ([]models.Client, error)
	GetByIdentification(ctx context.Context, principal models.Principal, idType, idNumber string) (*models.Client, error)
	Create(ctx context.Context, principal models.Principal, req ClientRequest) (*models.Client, error)
	Update(ctx context.Context, principal models.Principal, clientID int64, req ClientRequest) (*models.Client, error)
	Delete(ctx context.Context, principal models.Principal, clientID int64) (bool, error)
}

type clientService struct {
	clients repositories.ClientRepository
	users   repositories.UserRepository
	now     func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(clients repositories.ClientRepository, users repositories.UserRepository) ClientService {
	return &clientService{
		clients: clients,
		users:   users,
		now:     time.Now,
	}
}

func (s *clientService) ListAll(ctx context.Context, principal models.Principal) ([]models.Client, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	clients, err := s.clients.FindByUserEmail(ctx, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

func (s *clientService) GetByIdentification(ctx context.Context, principal models.Principal, idType, idNumber string) (*models.Client, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	client, err := s.clients.FindByIdentificationAndUserEmail(ctx, strings.TrimSpace(idType), strings.TrimSpace(idNumber), principal.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// Create stores a new client owned by the principal.
func (s *clientService) Create(ctx context.Context, principal models.Principal, req ClientRequest) (*models.Client, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	req = req.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}
	owner, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.LogError(ErrPrincipalNotFound, "Token subject has no user record", map[string]interface{}{"email": principal.Email})
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to resolve client owner: %w", err)
	}

	now := s.now()
	client := &models.Client{
		UserID:           owner.ID,
		OwnerEmail:       owner.Email,
		Name:             req.Name,
		Surname:          req.Surname,
		IDType:           req.IDType,
		IDNumber:         req.IDNumber,
		CreationDate:     now,
		ModificationDate: now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrClientAlreadyExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Update overwrites the mutable fields of an owned client.
func (s *clientService) Update(ctx context.Context, principal models.Principal, clientID int64, req ClientRequest) (*models.Client, error) {
	if principal.IsZero() {
		return nil, ErrAuthenticationRequired
	}
	req = req.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}
	exists, err := s.clients.ExistsByIDAndUserEmail(ctx, clientID, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check client %d: %w", clientID, err)
	}
	if !exists {
		return nil, ErrClientNotFound
	}

	client := &models.Client{
		ID:       clientID,
		Name:     req.Name,
		Surname:  req.Surname,
		IDType:   req.IDType,
		IDNumber: req.IDNumber,
	}
	client.Touch(s.now())

	if err := s.clients.UpdateByUserEmail(ctx, client, principal.Email); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrClientNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrClientAlreadyExists
		}
		return nil, fmt.Errorf("failed to update client %d: %w", clientID, err)
	}
	return client, nil
}

// Delete removes an owned client. It reports false when there was nothing to delete.
func (s *clientService) Delete(ctx context.Context, principal models.Principal, clientID int64) (bool, error) {
	if principal.IsZero() {
		return false, ErrAuthenticationRequired
	}
	exists, err := s.clients.ExistsByIDAndUserEmail(ctx, clientID, principal.Email)
	if err != nil {
		return false, fmt.Errorf("failed to check client %d: %w", clientID, err)
	}
	if !exists {
		return false, nil
	}
	deleted, err := s.clients.DeleteByIDAndUserEmail(ctx, clientID, principal.Email)
	if err != nil {
		return false, fmt.Errorf("failed to delete client %d: %w", clientID, err)
	}
	return deleted, nil
}
