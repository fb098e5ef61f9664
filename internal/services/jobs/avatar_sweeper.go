package jobs

import (
	"context"
	"log/slog"
	"time"
)

const avatarSweeperName = "avatar-sweeper"

type orphanSweeper interface {
	SweepOrphanAvatars(ctx context.Context) (int, error)
}

// AvatarSweeper удаляет из бакета аватарки, на которые не ссылается ни один профиль
type AvatarSweeper struct {
	sweeper orphanSweeper
	hour    int
	log     *slog.Logger
}

func NewAvatarSweeper(sweeper orphanSweeper, hour int, log *slog.Logger) *AvatarSweeper {
	return &AvatarSweeper{
		sweeper: sweeper,
		hour:    hour,
		log:     log,
	}
}

func (j *AvatarSweeper) Name() string {
	return avatarSweeperName
}

// NextRun каждый день в j.hour:00 UTC
func (j *AvatarSweeper) NextRun(now time.Time) time.Time {
	nowUTC := now.UTC()
	next := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), j.hour, 0, 0, 0, time.UTC)
	if !next.After(nowUTC) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (j *AvatarSweeper) Run(ctx context.Context) error {
	removed, err := j.sweeper.SweepOrphanAvatars(ctx)
	if err != nil {
		return err
	}
	j.log.Info("orphan avatars swept", "removed", removed)
	return nil
}
