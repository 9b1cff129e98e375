package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/pkg/logger"
)

// PasswordHasher abstracts bcrypt so the usecase stays testable.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) error
}

// TokenManager signs and validates the access/refresh JWT pair.
type TokenManager interface {
	Generate(userID string) (access, refresh string, err error)
	ValidateAccessToken(token string) (string, error)
	ValidateRefreshToken(token string) (string, error)
}

// TokenCache stores issued refresh tokens for revocation checks.
type TokenCache interface {
	SaveRefresh(ctx context.Context, userID, refreshToken string) error
	CheckRefresh(ctx context.Context, refreshToken string) (string, error)
	DeleteRefresh(ctx context.Context, refreshToken string) error
}

// AuthUseCase is the auth collaborator. Registration creates the paired
// gamification row in the same transaction as the user itself.
type AuthUseCase struct {
	store        Store
	tokenCache   TokenCache
	hasher       PasswordHasher
	tokenManager TokenManager
	log          *logger.Logger
}

func NewAuthUseCase(store Store, tc TokenCache, h PasswordHasher, tm TokenManager, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		store:        store,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		log:          log,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, username, email, password string) (string, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
	}

	err = uc.store.InTx(ctx, func(tx Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Gamification().Create(ctx, &domain.Gamification{
			UserID:      user.ID,
			Level:       1,
			DailyXPGoal: defaultDailyGoal,
			UpdatedAt:   time.Now(),
		})
	})
	if err != nil {
		return "", err
	}

	uc.log.Info("user registered", "user", user.ID, "username", username)
	return user.ID.String(), nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := uc.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", domain.ErrUserInactive
	}
	return uc.generateAndSaveTokens(ctx, user.ID.String())
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", err
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != userID {
		return "", "", domain.ErrTokenRevoked
	}
	_ = uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	return uc.generateAndSaveTokens(ctx, userID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

// ValidateAccess resolves a bearer token to the acting user, rejecting
// inactive accounts.
func (uc *AuthUseCase) ValidateAccess(ctx context.Context, token string) (uuid.UUID, error) {
	userIDStr, err := uc.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}
	user, err := uc.store.Users().GetByID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if !user.IsActive {
		return uuid.Nil, domain.ErrUserInactive
	}
	return userID, nil
}

func (uc *AuthUseCase) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	user, err := uc.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	g, err := uc.store.Gamification().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Level:    g.Level,
		TotalXP:  g.TotalXP,
		JoinedAt: user.CreatedAt,
	}, nil
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, userID string) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(userID)
	if err != nil {
		return "", "", err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
