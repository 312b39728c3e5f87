package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/shopfront-backend/internal/carts"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	oauthDefaultAge           = 18
)

// ErrNoIdentity is wrapped by every failure that means "no authenticated user".
var ErrNoIdentity = errors.New("no identity")

// Service resolves identities for local credentials, OAuth profiles and sessions.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*users.UserDTO, error)
	OAuthLogin(ctx context.Context, profile Profile) (*users.UserDTO, error)
	Serialize(identity *users.UserDTO) string
	Deserialize(ctx context.Context, id string) (*users.UserDTO, error)
}

type cartService interface {
	Create(ctx context.Context) (*carts.CartDTO, error)
	Delete(ctx context.Context, id string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          users.Repository
	Carts          cartService
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	// Transactor is optional. Without it a failed registration removes its cart afterwards.
	Transactor Transactor
}

type service struct {
	users       users.Repository
	carts       cartService
	tx          Transactor
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:       params.Users,
		carts:       params.Carts,
		tx:          params.Transactor,
		passwordCfg: params.PasswordConfig,
		logg:        logg,
	}, nil
}

func noIdentity(code pkgerrors.Code, message string) error {
	return pkgerrors.Wrap(code, ErrNoIdentity, message)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a cart and a local user linked to it. The email is checked
// before anything is written.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, noIdentity(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.createWithCart(ctx, users.CreateUserDTO{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Age:          req.Age,
		PasswordHash: passwordHash,
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

// createWithCart stores a fresh cart and the user pointing at it.
func (s *service) createWithCart(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.tx != nil {
		var user *models.User
		err := s.tx.InTx(ctx, func(userRepo users.Repository, cartRepo carts.Repository) error {
			cartSvc, err := carts.NewService(cartRepo)
			if err != nil {
				return err
			}
			cart, err := cartSvc.Create(ctx)
			if err != nil {
				return err
			}
			dto.CartID = &cart.ID
			user, err = createUser(ctx, userRepo, dto)
			return err
		})
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	cart, err := s.carts.Create(ctx)
	if err != nil {
		return nil, err
	}
	dto.CartID = &cart.ID
	user, err := createUser(ctx, s.users, dto)
	if err != nil {
		s.discardCart(ctx, cart.ID)
		return nil, err
	}
	return user, nil
}

func createUser(ctx context.Context, repo users.Repository, dto users.CreateUserDTO) (*models.User, error) {
	user, err := repo.Create(ctx, dto)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, noIdentity(pkgerrors.CodeConflict, "email already registered")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

func (s *service) discardCart(ctx context.Context, cartID string) {
	if err := s.carts.Delete(ctx, cartID); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"cart_id": cartID,
			"error":   err.Error(),
		}), "auth.register.cart_cleanup_failed")
	}
}

// Login verifies local credentials. Unknown emails and wrong passwords fail identically.
func (s *service) Login(ctx context.Context, req LoginRequest) (*users.UserDTO, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, noIdentity(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, noIdentity(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, noIdentity(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return users.FromModel(user), nil
}

// OAuthLogin returns the user owning the profile email, creating one on first sign-in.
func (s *service) OAuthLogin(ctx context.Context, profile Profile) (*users.UserDTO, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, noIdentity(pkgerrors.CodeUnauthorized, "oauth profile has no email")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return users.FromModel(existing), nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	firstName, lastName := splitDisplayName(profile.Name, profile.Login)
	created, err := s.users.Create(ctx, users.CreateUserDTO{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Age:       oauthDefaultAge,
		Role:      enums.UserRoleUser,
	})
	if errors.Is(err, db.ErrDuplicate) {
		created, err = s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create oauth user")
	}
	return users.FromModel(created), nil
}

// splitDisplayName uses the first token as the first name and the rest as the last name.
func splitDisplayName(name, login string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return strings.TrimSpace(login), ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func (s *service) Serialize(identity *users.UserDTO) string {
	if identity == nil {
		return ""
	}
	return identity.ID
}

func (s *service) Deserialize(ctx context.Context, id string) (*users.UserDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, noIdentity(pkgerrors.CodeUnauthorized, "session user not found")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, noIdentity(pkgerrors.CodeUnauthorized, "session user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session user")
	}
	return users.FromModel(user), nil
}
