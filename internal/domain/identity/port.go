package identity

import "context"

// Repository returns nil, nil for rows that do not exist.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, uid string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateCompanyFields(ctx context.Context, uid, companyName, industryType string) error
	DeleteUser(ctx context.Context, uid string) error

	GetCompany(ctx context.Context, uid string) (*Company, error)
	SaveCompany(ctx context.Context, c *Company) error
	DeleteCompany(ctx context.Context, uid string) error
}

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints and verifies session tokens carrying the user id.
type TokenIssuer interface {
	Issue(uid string) (string, error)
	Verify(token string) (string, error)
}
