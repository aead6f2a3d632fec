package service

import (
	"context"
	"strings"

	"github.com/stetat/ToDo-bot/internal/repo"

	"github.com/sirupsen/logrus"
)

// UserService handles user registration.
type UserService struct {
	repo repo.UserRepo
	log  *logrus.Entry
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, log *logrus.Entry) *UserService {
	return &UserService{repo: repo, log: log}
}

// Register upserts the user profile and its quota row. Idempotent: the bot
// calls this on every /start.
func (s *UserService) Register(ctx context.Context, tgID int64, name string) error {
	if err := s.repo.Upsert(ctx, tgID, strings.TrimSpace(name)); err != nil {
		return err
	}
	s.log.WithField("tg_id", tgID).Debug("user registered")
	return nil
}
