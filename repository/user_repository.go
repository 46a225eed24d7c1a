package repository

import (
	"sync"
	"time"

	"go-ledger-api/logger"
	"go-ledger-api/model"
)

// IUserRepository defines the contract for the user directory. The ledger
// core only consumes ownership facts from it; credentials exist for the HTTP
// login flow.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id int64) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUserRole(userID int64, role string) error
	DeleteUser(id int64) error
	AddAccountToUser(userID, accountID int64) error
	RemoveAccountFromUser(userID, accountID int64) error
	GetAccountIDsByUserID(userID int64) ([]int64, error)
}

// UserRepository is the in-memory user directory. Owned accounts are tracked
// as id references, kept in sync with Account.UserID by the account service.
type UserRepository struct {
	mu       sync.RWMutex
	users    map[int64]model.User
	byEmail  map[string]int64
	accounts map[int64][]int64
	nextID   int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:    make(map[int64]model.User),
		byEmail:  make(map[string]int64),
		accounts: make(map[int64][]int64),
	}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrUserExists
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = string(model.RoleUser)
	}

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID

	logger.Log.WithField("user_id", user.ID).Info("User created")
	return nil
}

func (r *UserRepository) GetUserByID(id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*model.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *UserRepository) UpdateUserRole(userID int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	r.users[userID] = u

	logger.Log.WithField("user_id", userID).Info("User role updated")
	return nil
}

func (r *UserRepository) DeleteUser(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.byEmail, u.Email)
	delete(r.accounts, id)

	logger.Log.WithField("user_id", id).Info("User deleted")
	return nil
}

// AddAccountToUser records ownership of an account id.
func (r *UserRepository) AddAccountToUser(userID, accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return ErrUserNotFound
	}
	for _, id := range r.accounts[userID] {
		if id == accountID {
			return nil
		}
	}
	r.accounts[userID] = append(r.accounts[userID], accountID)
	return nil
}

// RemoveAccountFromUser drops ownership of an account id. Removing an id the
// user does not hold is not an error.
func (r *UserRepository) RemoveAccountFromUser(userID, accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return ErrUserNotFound
	}
	r.accounts[userID] = removeID(r.accounts[userID], accountID)
	return nil
}

// GetAccountIDsByUserID returns the account ids owned by the user, in the
// order they were associated.
func (r *UserRepository) GetAccountIDsByUserID(userID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.users[userID]; !ok {
		return nil, ErrUserNotFound
	}
	ids := make([]int64, len(r.accounts[userID]))
	copy(ids, r.accounts[userID])
	return ids, nil
}
