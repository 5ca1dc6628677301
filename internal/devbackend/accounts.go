package devbackend

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/session"
	"golang.org/x/crypto/bcrypt"
)

// Account is a login identity with a bcrypt password hash.
type Account struct {
	User         session.User
	PasswordHash string
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Accounts is an in-memory account list keyed by lower-cased email.
type Accounts struct {
	byEmail map[string]Account
	lock    sync.RWMutex
}

func NewAccounts() *Accounts {
	return &Accounts{byEmail: make(map[string]Account)}
}

// Add registers an account, generating an ID if the user has none.
func (a *Accounts) Add(user session.User, password string) (session.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return session.User{}, apperrors.Wrapf(err, "[Accounts Add] hash password")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	a.lock.Lock()
	defer a.lock.Unlock()
	a.byEmail[strings.ToLower(user.Email)] = Account{User: user, PasswordHash: hash}
	return user, nil
}

// Authenticate returns the user if the password matches and the account holds role.
func (a *Accounts) Authenticate(email, password, role string) (session.User, error) {
	a.lock.RLock()
	account, ok := a.byEmail[strings.ToLower(email)]
	a.lock.RUnlock()

	if !ok || !CheckPasswordHash(password, account.PasswordHash) {
		return session.User{}, apperrors.ErrInvalidCredentials
	}
	if role != "" && account.User.Role != role {
		return session.User{}, apperrors.ErrInvalidCredentials
	}
	return account.User, nil
}
