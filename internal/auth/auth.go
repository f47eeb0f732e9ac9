// Package auth manages customer accounts and the logged-in session
// snapshot.  Accounts live under the users key (email unique); the most
// recent login is mirrored into currentSession with its login timestamp,
// which drives the session-age expiry check.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/chat"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
	"github.com/cottagecooking/class-booking/internal/utils"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SessionTTL is how long a login remains valid before it reads as
// expired.
const SessionTTL = 24 * time.Hour

// Service implements account registration, login and session checks.
type Service struct {
	Store      store.Store
	JWTSecret  string
	TokenTTL   int // minutes
	BcryptCost int
	Now        func() time.Time
}

// NewService wires an auth service to the store.
func NewService(s store.Store, jwtSecret string, tokenTTLMin, bcryptCost int) *Service {
	if s == nil {
		panic("nil store passed to auth.NewService")
	}
	return &Service{Store: s, JWTSecret: jwtSecret, TokenTTL: tokenTTLMin, BcryptCost: bcryptCost, Now: time.Now}
}

// RegisterRequest carries a sign-up form.
type RegisterRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Dietary    string `json:"dietary"`
	Experience string `json:"experience"`
}

// Register creates a member account.  Fails with ErrDuplicateAccount when
// the email is already taken (including auto-created checkout accounts)
// and ErrInvalidEmail/ErrMissingFields on bad input.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		return model.User{}, model.ErrMissingFields
	}
	if !emailRe.MatchString(req.Email) {
		return model.User{}, model.ErrInvalidEmail
	}
	var users []model.User
	if _, err := store.GetJSON(ctx, s.Store, store.KeyUsers, &users); err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateAccount, req.Email)
		}
	}
	hash, err := utils.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	if req.Experience == "" {
		req.Experience = "beginner"
	}
	u := model.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Dietary:      strings.TrimSpace(req.Dietary),
		Experience:   req.Experience,
		PasswordHash: hash,
		AccountType:  "member",
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	users = append(users, u)
	if err := store.SetJSON(ctx, s.Store, store.KeyUsers, users); err != nil {
		return model.User{}, err
	}
	_ = chat.PushAdminNotification(ctx, s.Store, model.AdminNotification{
		Type:      "new_member",
		Message:   fmt.Sprintf("New member: %s %s just signed up!", u.FirstName, u.LastName),
		Timestamp: s.now().UnixMilli(),
	})
	return u, nil
}

// Login verifies credentials, writes the currentSession snapshot and
// issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (model.Session, utils.AccessToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return model.Session{}, utils.AccessToken{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.Session{}, utils.AccessToken{}, model.ErrBadCredentials
	}
	sess := model.Session{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		LoginTime: s.now().UTC().Format(time.RFC3339),
	}
	if err := store.SetJSON(ctx, s.Store, store.KeyCurrentSession, sess); err != nil {
		return model.Session{}, utils.AccessToken{}, err
	}
	tok, err := utils.NewAccessToken(s.JWTSecret, u.Email, u.IsAdmin, s.TokenTTL)
	if err != nil {
		return model.Session{}, utils.AccessToken{}, err
	}
	return sess, tok, nil
}

// CurrentSession returns the stored session snapshot, or ErrAuthExpired
// when the login is older than SessionTTL or absent.
func (s *Service) CurrentSession(ctx context.Context) (model.Session, error) {
	var sess model.Session
	ok, err := store.GetJSON(ctx, s.Store, store.KeyCurrentSession, &sess)
	if err != nil {
		return model.Session{}, err
	}
	if !ok || sess.Email == "" {
		return model.Session{}, model.ErrAuthExpired
	}
	login, err := time.Parse(time.RFC3339, sess.LoginTime)
	if err != nil || s.now().Sub(login) > SessionTTL {
		return model.Session{}, model.ErrAuthExpired
	}
	return sess, nil
}

// Logout clears the session snapshot and records the event.
func (s *Service) Logout(ctx context.Context) error {
	var sess model.Session
	if ok, _ := store.GetJSON(ctx, s.Store, store.KeyCurrentSession, &sess); ok && sess.Email != "" {
		_ = chat.PushAdminNotification(ctx, s.Store, model.AdminNotification{
			Type:      "logout",
			Message:   fmt.Sprintf("%s %s logged out", sess.FirstName, sess.LastName),
			Timestamp: s.now().UnixMilli(),
		})
	}
	return s.Store.Delete(ctx, store.KeyCurrentSession)
}

// ResetPassword replaces the user's password with a temp one and returns
// the plain value for one-time delivery.  The reset is surfaced in the
// admin feed as a security event.
func (s *Service) ResetPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var users []model.User
	if _, err := store.GetJSON(ctx, s.Store, store.KeyUsers, &users); err != nil {
		return "", err
	}
	idx := -1
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", model.ErrUserNotFound
	}
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	temp := hex.EncodeToString(buf)
	hash, err := utils.HashPassword(temp, s.BcryptCost)
	if err != nil {
		return "", err
	}
	users[idx].PasswordHash = hash
	if err := store.SetJSON(ctx, s.Store, store.KeyUsers, users); err != nil {
		return "", err
	}
	_ = chat.PushAdminNotification(ctx, s.Store, model.AdminNotification{
		Type:      "security",
		Message:   fmt.Sprintf("%s %s reset their password", users[idx].FirstName, users[idx].LastName),
		Timestamp: s.now().UnixMilli(),
	})
	logrus.WithField("email", email).Info("auth: password reset")
	return temp, nil
}

// Users returns all accounts.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := store.GetJSON(ctx, s.Store, store.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrBadCredentials
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
