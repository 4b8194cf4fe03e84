package service

import (
	"context"
	"fmt"
	"strings"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"
)

// AuthService is a username-only login. Whoever types a name becomes that user.
type AuthService interface {
	Login(ctx context.Context, sess *session.Session, username string) (*model.User, error)
	Logout(ctx context.Context, sess *session.Session)
	RequireLogin(ctx context.Context, sess *session.Session) bool
	CurrentUser(ctx context.Context, sess *session.Session) (*model.User, error)
}

type authService struct {
	cfg      *config.Config
	log      *logger.Logger
	userRepo repository.UserRepository
}

func NewAuthService(cfg *config.Config, log *logger.Logger, userRepo repository.UserRepository) AuthService {
	return &authService{
		cfg:      cfg,
		log:      log,
		userRepo: userRepo,
	}
}

func (s *authService) Login(ctx context.Context, sess *session.Session, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperror.ErrInvalidInput)
	}

	user, err := s.userRepo.GetOrCreate(ctx, username)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get or create user", logger.ErrorField(err), logger.StringField("username", username))
		return nil, err
	}

	// switching users must not leak the previous user's stock or chat
	if sess.IsAuthenticated() && *sess.UserID != user.ID {
		sess.Clear()
	}
	sess.SetUser(user.ID, user.Username)
	sess.StartedAt = utils.TimeNowUTC()

	if err := s.userRepo.RecordSessionTime(ctx, user.ID, sess.StartedAt); err != nil {
		s.log.WarnContext(ctx, "Failed to record session time", logger.ErrorField(err), logger.UintField("user_id", user.ID))
	}

	s.log.InfoContext(ctx, "User logged in", logger.UintField("user_id", user.ID), logger.StringField("username", user.Username))
	return user, nil
}

func (s *authService) Logout(ctx context.Context, sess *session.Session) {
	if sess.IsAuthenticated() {
		s.log.InfoContext(ctx, "User logged out", logger.UintField("user_id", *sess.UserID))
	}
	sess.Clear()
}

func (s *authService) RequireLogin(ctx context.Context, sess *session.Session) bool {
	if !sess.IsAuthenticated() {
		s.log.DebugContext(ctx, apperror.ErrLoginRequired.Error())
		return false
	}
	return true
}

// CurrentUser returns (nil, nil) for an anonymous session or a user that no longer exists.
func (s *authService) CurrentUser(ctx context.Context, sess *session.Session) (*model.User, error) {
	if !sess.IsAuthenticated() {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, *sess.UserID)
}
