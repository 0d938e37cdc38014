package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/internal/storage"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

type ProfilePatch struct {
	Name            *string
	Email           *string
	ProfileImageURL *string
	Password        *string
}

type AuthService struct {
	users       UserStore
	hasher      PasswordHasher
	tokens      TokenIssuer
	images      ImageStore
	inviteToken string
	logger      *slog.Logger
}

func NewAuthService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	images ImageStore,
	inviteToken string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		images:      images,
		inviteToken: inviteToken,
		logger:      logger,
	}
}

// NormalizeEmail trims and lower-cases an address and rejects anything
// that is not a bare mailbox.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", exceptions.Validation("email is required", map[string]string{"email": "required"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", exceptions.Validation("invalid email", map[string]string{"email": "invalid format"})
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return exceptions.Validation("password is too short",
			map[string]string{"password": fmt.Sprintf("at least %d characters", minPasswordLength)})
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*dto.AuthResponse, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "required"
	}
	if in.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return nil, exceptions.Validation("name, email and password are required", fields)
	}

	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	role := constants.RoleUser
	if s.inviteMatches(in.AdminInviteToken) {
		role = constants.RoleAdmin
	}

	user, err := s.createUser(ctx, name, email, in.Password, strings.TrimSpace(in.ProfileImageURL), role)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin bootstraps an administrator without an invite token.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*dto.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, exceptions.Validation("name is required", map[string]string{"name": "required"})
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, name, normalized, password, "", constants.RoleAdmin)
	if err != nil {
		return nil, err
	}
	profile := dto.NewUserProfile(user)
	return &profile, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, imageURL string, role constants.Role) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, exceptions.ErrEmailTaken
	} else if !errors.Is(err, exceptions.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:            name,
		Email:           email,
		Password:        hash,
		Role:            role,
		ProfileImageURL: imageURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, passThrough("create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", role)
	return user, nil
}

func (s *AuthService) inviteMatches(token string) bool {
	if s.inviteToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.inviteToken)) == 1
}

// Login answers every mismatch with the same error so callers cannot probe
// which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return nil, exceptions.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, exceptions.ErrUserNotFound) {
			return nil, exceptions.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, exceptions.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserProfile(user),
	}, nil
}

// Authenticate resolves a bearer token to a caller. The role always comes
// from the stored user, never from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*policy.Caller, error) {
	if token == "" {
		return nil, exceptions.ErrUnauthenticated
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, exceptions.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, exceptions.ErrUserNotFound) {
			return nil, exceptions.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load caller: %w", err)
	}
	if !user.Role.Valid() {
		return nil, exceptions.ErrUnauthenticated
	}
	return &policy.Caller{ID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) Profile(ctx context.Context, caller *policy.Caller) (*dto.UserProfile, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	profile := dto.NewUserProfile(user)
	return &profile, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller *policy.Caller, patch ProfilePatch) (*dto.AuthResponse, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, exceptions.Validation("name is required", map[string]string{"name": "required"})
		}
		user.Name = name
	}
	if patch.Email != nil {
		email, err := NormalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = strings.TrimSpace(*patch.ProfileImageURL)
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, passThrough("update profile", err)
	}

	s.logger.Info("profile updated", "user_id", user.ID, "password_changed", patch.Password != nil)
	return s.issue(user)
}

// UploadImage stores an image and returns its public URL.
func (s *AuthService) UploadImage(filename string, r io.Reader) (*dto.ImageUploadResponse, error) {
	if filename == "" || r == nil {
		return nil, exceptions.Validation("no file uploaded", map[string]string{"image": "required"})
	}
	url, err := s.images.SaveImage(filename, r)
	if err != nil {
		return nil, imageError(err)
	}
	return &dto.ImageUploadResponse{ImageURL: url}, nil
}

func imageError(err error) error {
	if errors.Is(err, storage.ErrUnsupportedType) {
		return exceptions.Validation("only image files are allowed",
			map[string]string{"image": "must be jpg, jpeg, png, gif or webp"})
	}
	return fmt.Errorf("save image: %w", err)
}
