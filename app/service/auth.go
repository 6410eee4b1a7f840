package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/app/repository"
	"github.com/space2study/ms-go-api/config"
)

var (
	ErrAlreadyRegistered     = errors.New("user already registered")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailNotConfirmed     = errors.New("email is not confirmed")
	ErrIncorrectCredentials  = errors.New("incorrect credentials")
	ErrRefreshTokenInvalid   = errors.New("invalid or expired refresh token")
	ErrBadResetToken         = errors.New("invalid or expired reset token")
	ErrBadConfirmToken       = errors.New("invalid or expired confirm token")
	ErrEmailAlreadyConfirmed = errors.New("email is already confirmed")
	ErrBadIDToken            = errors.New("invalid google id token")
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	ConfirmEmail(ctx context.Context, userID uint64) error
	UpdateLastLogin(ctx context.Context, userID uint64, lastLogin time.Time, lastLoginAs string) error
}

type emailSender interface {
	Send(ctx context.Context, to, subject, lang string, data map[string]string) error
}

// GoogleTicket is the identity extracted from a verified Google ID token.
type GoogleTicket struct {
	Email     string
	FirstName string
	LastName  string
}

type googleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleTicket, error)
}

type SignupResult struct {
	UserID    uint64
	UserEmail string
}

type AsyncRunner func(task func())

type AuthServiceOption func(*AuthService)

// AuthService orchestrates signup, login, logout, token refresh, password
// reset, email confirmation and Google federated login.
type AuthService struct {
	db             *sql.DB
	userRepo       userRepository
	tokenService   *TokenService
	hasher         *Hasher
	emailService   emailSender
	googleVerifier googleVerifier
	cfg            *config.Config
	asyncRunner    AsyncRunner
}

func NewAuthService(
	db *sql.DB,
	userRepo userRepository,
	tokenService *TokenService,
	hasher *Hasher,
	emailService emailSender,
	googleVerifier googleVerifier,
	cfg *config.Config,
	opts ...AuthServiceOption,
) *AuthService {
	svc := &AuthService{
		db:             db,
		userRepo:       userRepo,
		tokenService:   tokenService,
		hasher:         hasher,
		emailService:   emailService,
		googleVerifier: googleVerifier,
		cfg:            cfg,
		asyncRunner: func(task func()) {
			go task()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) AuthServiceOption {
	return func(s *AuthService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

func (s *AuthService) Signup(ctx context.Context, role, firstName, lastName, email, password, lang string) (*SignupResult, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		IsFirstLogin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	confirmToken, err := s.tokenService.GenerateConfirmToken(EmailPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		Email:     user.Email,
	})
	if err != nil {
		return nil, err
	}

	if err = s.tokenService.PersistToken(ctx, user.ID, confirmToken, entity.TokenKindConfirm); err != nil {
		return nil, err
	}

	// Delivery failure must not undo the signup; the user can request a new
	// confirm token later.
	s.sendEmailAsync(user.Email, EmailSubjectConfirmEmail, lang, map[string]string{
		"firstName": user.FirstName,
		"link":      s.cfg.ClientURL + "/confirm-email/" + confirmToken,
	})

	return &SignupResult{UserID: user.ID, UserEmail: user.Email}, nil
}

// Login authenticates a user and issues a fresh token pair. Federated logins
// skip the password comparison: the identity provider has already vouched for
// the email upstream. Persisting the refresh token overwrites any previous
// one, which logs out other sessions.
func (s *AuthService) Login(ctx context.Context, email, password string, isFederated bool) (*TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.IsEmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	if !isFederated && !s.hasher.Compare(password, user.PasswordHash) {
		return nil, ErrIncorrectCredentials
	}

	pair, err := s.tokenService.GenerateAccessAndRefreshTokens(UserPayload{
		ID:           user.ID,
		Role:         user.Role,
		IsFirstLogin: user.IsFirstLogin,
	})
	if err != nil {
		return nil, err
	}

	if err = s.tokenService.PersistToken(ctx, user.ID, pair.RefreshToken, entity.TokenKindRefresh); err != nil {
		return nil, err
	}

	userID, role := user.ID, user.Role
	s.asyncRunner(func() {
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if updateErr := s.userRepo.UpdateLastLogin(updateCtx, userID, time.Now(), role); updateErr != nil {
			logrus.WithError(updateErr).WithField("user_id", userID).Error("failed to update last_login")
		}
	})

	return pair, nil
}

// Logout revokes the persisted refresh token for the token's owner. Invalid,
// expired or already-revoked tokens are tolerated.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenService.ValidateToken(refreshToken, entity.TokenKindRefresh)
	if err != nil {
		return nil
	}
	return s.tokenService.RevokeToken(ctx, claims.UserID, entity.TokenKindRefresh)
}

// RefreshAccessToken exchanges a valid refresh token for a new access/refresh
// pair. The persisted row is locked and compared against the presented token
// inside one transaction, so a token invalidated by logout or an earlier
// rotation is rejected and two concurrent exchanges cannot both succeed.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.ValidateToken(refreshToken, entity.TokenKindRefresh)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txTokenRepo := repository.NewTokenRepository(tx)
	stored, err := txTokenRepo.FindByUserForUpdate(ctx, claims.UserID, entity.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Token != refreshToken {
		return nil, ErrRefreshTokenInvalid
	}

	txUserRepo := repository.NewUserRepository(tx)
	user, err := txUserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRefreshTokenInvalid
	}

	pair, err := s.tokenService.GenerateAccessAndRefreshTokens(UserPayload{
		ID:           user.ID,
		Role:         user.Role,
		IsFirstLogin: user.IsFirstLogin,
	})
	if err != nil {
		return nil, err
	}

	if err = txTokenRepo.Upsert(ctx, &entity.Token{
		UserID:    user.ID,
		Kind:      entity.TokenKindRefresh,
		Token:     pair.RefreshToken,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return pair, nil
}

func (s *AuthService) SendResetPasswordEmail(ctx context.Context, email, lang string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	resetToken, err := s.tokenService.GenerateResetToken(EmailPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		Email:     user.Email,
	})
	if err != nil {
		return err
	}

	if err = s.tokenService.PersistToken(ctx, user.ID, resetToken, entity.TokenKindReset); err != nil {
		return err
	}

	s.sendEmailAsync(user.Email, EmailSubjectResetPassword, lang, map[string]string{
		"firstName": user.FirstName,
		"email":     user.Email,
		"link":      s.cfg.ClientURL + "/reset-password/" + resetToken,
	})

	return nil
}

// UpdatePassword consumes a reset token: the new password is stored, the
// reset token is revoked, and any active session is logged out.
func (s *AuthService) UpdatePassword(ctx context.Context, resetToken, newPassword, lang string) error {
	claims, err := s.tokenService.ValidateToken(resetToken, entity.TokenKindReset)
	if err != nil {
		return ErrBadResetToken
	}

	stored, err := s.tokenService.FindToken(ctx, resetToken, entity.TokenKindReset)
	if err != nil {
		return err
	}
	if stored == nil || stored.UserID != claims.UserID {
		return ErrBadResetToken
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err = s.userRepo.UpdatePassword(ctx, claims.UserID, passwordHash); err != nil {
		return err
	}

	if err = s.tokenService.RevokeToken(ctx, claims.UserID, entity.TokenKindReset); err != nil {
		return err
	}
	if err = s.tokenService.RevokeToken(ctx, claims.UserID, entity.TokenKindRefresh); err != nil {
		return err
	}

	s.sendEmailAsync(claims.Email, EmailSubjectPasswordChanged, lang, map[string]string{
		"firstName": claims.FirstName,
	})

	return nil
}

func (s *AuthService) ConfirmEmail(ctx context.Context, confirmToken string) error {
	claims, err := s.tokenService.ValidateToken(confirmToken, entity.TokenKindConfirm)
	if err != nil {
		return ErrBadConfirmToken
	}

	stored, err := s.tokenService.FindToken(ctx, confirmToken, entity.TokenKindConfirm)
	if err != nil {
		return err
	}
	if stored == nil || stored.UserID != claims.UserID {
		user, findErr := s.userRepo.FindByID(ctx, claims.UserID)
		if findErr == nil && user != nil && user.IsEmailConfirmed {
			return ErrEmailAlreadyConfirmed
		}
		return ErrBadConfirmToken
	}

	if err = s.userRepo.ConfirmEmail(ctx, claims.UserID); err != nil {
		return err
	}

	return s.tokenService.RevokeToken(ctx, claims.UserID, entity.TokenKindConfirm)
}

// GetGoogleClientTicket verifies a Google ID token with the identity
// provider and returns the identity it asserts.
func (s *AuthService) GetGoogleClientTicket(ctx context.Context, idToken string) (*GoogleTicket, error) {
	ticket, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		logrus.WithError(err).Debug("google id token verification failed")
		return nil, ErrBadIDToken
	}
	return ticket, nil
}

func (s *AuthService) sendEmailAsync(to, subject, lang string, data map[string]string) {
	s.asyncRunner(func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.emailService.Send(sendCtx, to, subject, lang, data); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
			}).Error("failed to send email")
		}
	})
}
