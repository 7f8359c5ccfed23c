package jobs

import (
	"context"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// UserLister provides the user scan the sync job iterates over.
type UserLister interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// ProfileSyncJob periodically re-syncs user display identities into
// the chat provider. Online sync is best-effort and its failures are
// swallowed, so this job is what eventually repairs drifted records.
type ProfileSyncJob struct {
	users UserLister
	chat  *services.ChatService
}

func NewProfileSyncJob(users UserLister, chat *services.ChatService) *ProfileSyncJob {
	return &ProfileSyncJob{
		users: users,
		chat:  chat,
	}
}

// Run pushes every user's identity record to the provider, logging
// and continuing on per-user failure.
func (j *ProfileSyncJob) Run(ctx context.Context) error {
	users, err := j.users.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		j.chat.SyncUser(ctx, &users[i])
	}

	logrus.WithField("count", len(users)).Info("Chat profile sync completed")
	return nil
}

// StartProfileSyncCron schedules the hourly provider reconciliation.
func StartProfileSyncCron(job *ProfileSyncJob) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := job.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Chat profile sync failed")
		}
	})

	c.Start()
	return c
}
