package receptionist

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/credential"
	"github.com/medcore/medcore/internal/platform/loginguard"
	"github.com/medcore/medcore/internal/platform/schema"
)

const loginScope = "receptionist"

func errNotFound() error {
	return apperr.NotFound("Receptionist not found")
}

// Session is the result of a successful login.
type Session struct {
	Token        string
	Claims       *auth.Claims
	Receptionist *Receptionist
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

// Create adds a receptionist. A missing username is derived from the name.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Receptionist, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Number = strings.TrimSpace(req.Number)
	req.Email = credential.NormalizeEmail(req.Email)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Name == "" || req.Number == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("All fields (name, number, email, password) are required")
	}

	username := req.Username
	if username != "" {
		taken, err := s.repo.Taken(ctx, username, req.Email, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Username or email already exists")
		}
	} else {
		taken, err := s.repo.Taken(ctx, "", req.Email, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Username or email already exists")
		}
		base := credential.UsernameFromName(req.Name)
		if base == "" {
			base = credential.UsernameFromEmail(req.Email)
		}
		if username, err = credential.Unique(ctx, base, s.repo.UsernameTaken); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = credential.NewID()
	}

	return s.repo.Create(ctx, &NewReceptionist{
		ID:           id,
		Name:         req.Name,
		Number:       req.Number,
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

// Login accepts a username or an email. The username wins when both are
// given.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	column, identifier := "username", strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		column, identifier = "email", credential.NormalizeEmail(req.Email)
	}
	if identifier == "" || req.Password == "" {
		return nil, apperr.Validation("Username/Email and password are required")
	}
	if err := s.guard.Check(ctx, loginScope, identifier); err != nil {
		return nil, err
	}

	creds, err := s.repo.Credentials(ctx, column, identifier)
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	if creds == nil || !s.hasher.Verify(creds.PasswordHash, req.Password) {
		s.guard.Fail(ctx, loginScope, identifier)
		s.logger.Warn().Str(column, identifier).Msg("failed receptionist login")
		return nil, apperr.Unauthenticated(apperr.CodeBadCredentials, "Invalid credentials")
	}
	s.guard.Reset(ctx, loginScope, identifier)

	rc, err := s.repo.GetByID(ctx, creds.ID)
	if err != nil {
		return nil, err
	}
	token, claims, err := s.issuer.Issue(auth.Principal{
		ID:    rc.ID,
		Role:  auth.RoleReceptionist,
		Email: rc.Email,
		Name:  rc.Name,
	})
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	return &Session{Token: token, Claims: claims, Receptionist: rc}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Receptionist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Receptionist, error) {
	return s.repo.List(ctx)
}

// Update replaces name, number, username and email. A non-empty password is
// re-hashed.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Receptionist, error) {
	name := strings.TrimSpace(req.Name)
	number := strings.TrimSpace(req.Number)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := credential.NormalizeEmail(req.Email)
	if name == "" || number == "" || username == "" || email == "" {
		return nil, apperr.Validation("All fields (name, number, username, email) are required")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	taken, err := s.repo.Taken(ctx, username, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Username or email already exists")
	}

	p := schema.Patch{"name": name, "number": number, "username": username, "email": email}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperr.Internal(err, "hash password")
		}
		p["password"] = hash
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Int64("deleted", n).Msg("deleted all receptionists")
	return n, nil
}
