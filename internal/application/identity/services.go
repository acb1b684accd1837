package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/millwatt/internal/application"
	domain "github.com/bryanwahyu/millwatt/internal/domain/identity"
)

const MinPasswordLength = 6

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

type Service struct {
	Users  domain.Repository
	Hasher domain.PasswordHasher
	Tokens domain.TokenIssuer
	Clock  application.Clock
}

type SignupCommand struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	CompanyName  string `json:"companyName"`
	IndustryType string `json:"industryType"`
}

type Session struct {
	Token   string              `json:"token"`
	Profile *domain.UserProfile `json:"profile"`
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: email", ErrInvalidInput)
	}
	return s, nil
}

func (s *Service) Signup(ctx context.Context, cmd SignupCommand) (*Session, error) {
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if len(cmd.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	existing, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := s.Hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	industry := strings.TrimSpace(cmd.IndustryType)
	if industry == "" {
		industry = domain.DefaultIndustryType
	}
	u := &domain.User{
		UserProfile: domain.UserProfile{
			UID:          uuid.New().String(),
			Email:        email,
			FullName:     strings.TrimSpace(cmd.FullName),
			CompanyName:  strings.TrimSpace(cmd.CompanyName),
			IndustryType: industry,
			CreatedAt:    s.Clock.Now(),
		},
		PasswordHash: hash,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || s.Hasher.Compare(u.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) session(u *domain.User) (*Session, error) {
	tok, err := s.Tokens.Issue(u.UID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	p := u.UserProfile
	return &Session{Token: tok, Profile: &p}, nil
}

func (s *Service) Profile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	u, err := s.Users.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	p := u.UserProfile
	return &p, nil
}

// DeleteAccount removes the user and the company settings.
func (s *Service) DeleteAccount(ctx context.Context, uid string) error {
	if err := s.Users.DeleteCompany(ctx, uid); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if err := s.Users.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Company returns the saved settings, or settings prefilled from the profile.
func (s *Service) Company(ctx context.Context, uid string) (*domain.Company, error) {
	c, err := s.Users.GetCompany(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if c != nil {
		return c, nil
	}
	c = &domain.Company{
		UID:          uid,
		IndustryType: domain.DefaultIndustryType,
		ShiftTimings: domain.DefaultShiftTimings,
	}
	u, err := s.Users.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u != nil {
		c.CompanyName = u.CompanyName
		if u.IndustryType != "" {
			c.IndustryType = u.IndustryType
		}
	}
	return c, nil
}

// SaveCompany stores the settings and copies name and industry onto the profile.
func (s *Service) SaveCompany(ctx context.Context, uid string, in domain.Company) (*domain.Company, error) {
	in.UID = uid
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		return nil, fmt.Errorf("%w: companyName is required", ErrInvalidInput)
	}
	if in.IndustryType == "" {
		in.IndustryType = domain.DefaultIndustryType
	}
	if in.ShiftTimings == "" {
		in.ShiftTimings = domain.DefaultShiftTimings
	}
	in.UpdatedAt = s.Clock.Now()
	if err := s.Users.SaveCompany(ctx, &in); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}
	if err := s.Users.UpdateCompanyFields(ctx, uid, in.CompanyName, in.IndustryType); err != nil {
		return nil, fmt.Errorf("sync profile: %w", err)
	}
	return &in, nil
}
