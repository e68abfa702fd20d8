package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/credential"
	"github.com/medcore/medcore/internal/platform/loginguard"
)

const loginScope = "user"

func errNotFound() error {
	return apperr.NotFound("User not found")
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	Claims *auth.Claims
	User   *User
}

type Service struct {
	repo   Repository
	hasher credential.Hasher
	issuer *auth.Issuer
	guard  *loginguard.Guard
	logger zerolog.Logger
}

func NewService(repo Repository, hasher credential.Hasher, issuer *auth.Issuer, guard *loginguard.Guard, logger zerolog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer, guard: guard, logger: logger}
}

// Create registers a user. Anonymous and non-admin callers may only create
// patient accounts.
func (s *Service) Create(ctx context.Context, req *CreateRequest, callerRole string) (*User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = credential.NormalizeEmail(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, apperr.Validation("All required fields must be provided")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, apperr.Validation("Invalid email address")
	}
	if err := Schema.ValidateEnum("role", req.Role); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if req.Role != auth.RolePatient && callerRole != auth.RoleAdmin {
		return nil, apperr.Forbidden("Only administrators can create %s accounts", req.Role)
	}

	taken, err := s.repo.EmailTaken(ctx, req.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("User with this email already exists")
	}

	username, err := s.resolveUsername(ctx, req)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	id := strings.TrimSpace(req.UserID)
	if id == "" {
		id = credential.NewID()
	}

	return s.repo.Create(ctx, &NewUser{
		UserID:        id,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Username:      username,
		PasswordHash:  hash,
		Role:          req.Role,
		ContactNumber: req.ContactNumber,
	})
}

func (s *Service) resolveUsername(ctx context.Context, req *CreateRequest) (string, error) {
	if username := strings.ToLower(strings.TrimSpace(req.Username)); username != "" {
		taken, err := s.repo.UsernameTaken(ctx, username)
		if err != nil {
			return "", err
		}
		if taken {
			return "", apperr.Conflict("Username already exists")
		}
		return username, nil
	}
	return credential.Unique(ctx, credential.UsernameFromEmail(req.Email), s.repo.UsernameTaken)
}

// Login verifies email and password and issues a session token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	email := credential.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	if err := s.guard.Check(ctx, loginScope, email); err != nil {
		return nil, err
	}

	creds, err := s.repo.Credentials(ctx, email)
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	if creds == nil || !s.hasher.Verify(creds.PasswordHash, req.Password) {
		s.guard.Fail(ctx, loginScope, email)
		s.logger.Warn().Str("email", email).Msg("failed user login")
		return nil, apperr.Unauthenticated(apperr.CodeBadCredentials, "Invalid email or password")
	}
	s.guard.Reset(ctx, loginScope, email)

	u, err := s.repo.GetByID(ctx, creds.UserID)
	if err != nil {
		return nil, err
	}
	token, claims, err := s.issuer.Issue(auth.Principal{
		ID:    u.UserID,
		Role:  u.Role,
		Email: u.Email,
		Name:  u.FullName(),
	})
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	return &Session{Token: token, Claims: claims, User: u}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, credential.NormalizeEmail(email))
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*User, error) {
	if f.Role != "" {
		if err := Schema.ValidateEnum("role", f.Role); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
	}
	return s.repo.List(ctx, f)
}

// Update applies a partial profile update. The role and username never
// change after creation.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if req.Email != nil {
		email := credential.NormalizeEmail(*req.Email)
		if email == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("User with this email already exists")
		}
		req.Email = &email
	}
	p := req.Patch()
	if err := Schema.Validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return apperr.Validation("Password is required")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.Internal(err, "hash password")
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByRole(ctx context.Context) ([]*RoleCount, error) {
	return s.repo.CountByRole(ctx)
}
