package snapshots

import (
	"time"

	"github.com/rs/zerolog"
)

// UserSource lists the users that get scheduled snapshots.
type UserSource interface {
	Users() ([]string, error)
}

// SnapshotJob computes and caches a net-worth snapshot for every user.
// Scheduled daily after market close.
type SnapshotJob struct {
	service *Service
	repo    *Repository
	users   UserSource
	log     zerolog.Logger
}

// NewSnapshotJob creates the daily snapshot job.
func NewSnapshotJob(service *Service, repo *Repository, users UserSource, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		service: service,
		repo:    repo,
		users:   users,
		log:     log.With().Str("job", "networth_snapshot").Logger(),
	}
}

// Run computes a snapshot per user. One user failing does not stop the
// rest.
func (j *SnapshotJob) Run() error {
	users, err := j.users.Users()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to list users for snapshots")
		return err
	}

	now := time.Now()
	stored := 0
	for _, userID := range users {
		snapshot, err := j.service.Compute(userID, now)
		if err != nil {
			j.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute snapshot")
			continue
		}
		if err := j.repo.Store(snapshot, TTLNetWorth); err != nil {
			j.log.Error().Err(err).Str("user_id", userID).Msg("Failed to store snapshot")
			continue
		}
		stored++
	}

	j.log.Info().Int("users", len(users)).Int("stored", stored).Msg("Net-worth snapshots computed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *SnapshotJob) Name() string {
	return "networth_snapshot"
}

// CleanupJob removes expired snapshots from the cache database.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo *Repository
	log  zerolog.Logger
}

// NewCleanupJob creates a snapshot cache cleanup job.
func NewCleanupJob(repo *Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("job", "snapshot_cleanup").Logger(),
	}
}

// Run executes the cleanup job, removing all expired snapshots.
func (j *CleanupJob) Run() error {
	deleted, err := j.repo.DeleteExpired()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired snapshots")
		return err
	}

	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Cleaned up expired snapshots")
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "snapshot_cleanup"
}
