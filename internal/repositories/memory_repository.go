package repositories

import (
	"context"
	"sort"
	"sync"

	"clientback/internal/models"
)

// MemoryStore keeps users and clients in process memory. It enforces the same unique
// constraints and owner scoping as the Postgres schema and backs the "memory" driver.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[int64]models.User
	clients      map[int64]models.Client
	nextUserID   int64
	nextClientID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int64]models.User),
		clients: make(map[int64]models.Client),
	}
}

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{s: s} }

// Clients returns a ClientRepository view of the store.
func (s *MemoryStore) Clients() ClientRepository { return &memoryClientRepository{s: s} }

// userByEmail must be called with s.mu held.
func (s *MemoryStore) userByEmail(email string) (models.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// checkUserUnique must be called with s.mu held.
func (s *MemoryStore) checkUserUnique(user *models.User) error {
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return duplicateKeyError("duplicate email", ConstraintUserEmail)
		}
		if user.MobilePhone != nil && u.MobilePhone != nil && *u.MobilePhone == *user.MobilePhone {
			return duplicateKeyError("duplicate mobile phone", ConstraintUserMobilePhone)
		}
	}
	return nil
}

// checkClientUnique must be called with s.mu held.
func (s *MemoryStore) checkClientUnique(client *models.Client) error {
	for id, c := range s.clients {
		if id == client.ID {
			continue
		}
		if c.UserID == client.UserID && c.IDType == client.IDType && c.IDNumber == client.IDNumber {
			return duplicateKeyError("duplicate identification", ConstraintClientIdentification)
		}
	}
	return nil
}

// ownedClient returns the client with the owner email projected, when owned by email.
// Must be called with s.mu held.
func (s *MemoryStore) ownedClient(id int64, email string) (models.Client, bool) {
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, false
	}
	owner, ok := s.users[c.UserID]
	if !ok || owner.Email != email {
		return models.Client{}, false
	}
	c.OwnerEmail = owner.Email
	return c, true
}

type memoryUserRepository struct {
	s *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = 0
	if err := r.s.checkUserUnique(user); err != nil {
		return err
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	r.s.users[user.ID] = copyUser(*user)
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyUser(u)
	return &out, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.userByEmail(email)
	if !ok {
		return nil, ErrNotFound
	}
	out := copyUser(u)
	return &out, nil
}

func (r *memoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.userByEmail(email)
	return ok, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.s.checkUserUnique(user); err != nil {
		return err
	}
	updated := copyUser(*user)
	updated.CreationDate = existing.CreationDate
	r.s.users[user.ID] = updated
	return nil
}

func (r *memoryUserRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	for cid, c := range r.s.clients {
		if c.UserID == id {
			delete(r.s.clients, cid)
		}
	}
	return nil
}

type memoryClientRepository struct {
	s *MemoryStore
}

func (r *memoryClientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[client.UserID]; !ok {
		return wrapDBError(errForeignKey, "creating client")
	}
	client.ID = 0
	if err := r.s.checkClientUnique(client); err != nil {
		return err
	}
	r.s.nextClientID++
	client.ID = r.s.nextClientID
	stored := *client
	stored.OwnerEmail = ""
	r.s.clients[client.ID] = stored
	return nil
}

func (r *memoryClientRepository) FindByUserEmail(ctx context.Context, email string) ([]models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	clients := []models.Client{}
	for id := range r.s.clients {
		if c, ok := r.s.ownedClient(id, email); ok {
			clients = append(clients, c)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (r *memoryClientRepository) FindByIdentificationAndUserEmail(ctx context.Context, idType, idNumber, email string) (*models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, c := range r.s.clients {
		if c.IDType != idType || c.IDNumber != idNumber {
			continue
		}
		if owned, ok := r.s.ownedClient(id, email); ok {
			return &owned, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryClientRepository) FindByIDAndUserEmail(ctx context.Context, id int64, email string) (*models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.ownedClient(id, email)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryClientRepository) ExistsByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.ownedClient(id, email)
	return ok, nil
}

func (r *memoryClientRepository) UpdateByUserEmail(ctx context.Context, client *models.Client, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.ownedClient(client.ID, email)
	if !ok {
		return ErrNotFound
	}
	existing.Name = client.Name
	existing.Surname = client.Surname
	existing.IDType = client.IDType
	existing.IDNumber = client.IDNumber
	existing.ModificationDate = client.ModificationDate
	if err := r.s.checkClientUnique(&existing); err != nil {
		return err
	}

	*client = existing
	existing.OwnerEmail = ""
	r.s.clients[existing.ID] = existing
	return nil
}

func (r *memoryClientRepository) DeleteByIDAndUserEmail(ctx context.Context, id int64, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ownedClient(id, email); !ok {
		return false, nil
	}
	delete(r.s.clients, id)
	return true, nil
}

func copyUser(u models.User) models.User {
	if u.MobilePhone != nil {
		phone := *u.MobilePhone
		u.MobilePhone = &phone
	}
	return u
}
