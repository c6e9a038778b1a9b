// Package monitor wires the API client, the sample store and desktop
// notifications behind a single refresh entry point.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/glm-tools/glm-usage-tui/internal/api"
	"github.com/glm-tools/glm-usage-tui/internal/db"
	"github.com/glm-tools/glm-usage-tui/internal/logger"
	"github.com/glm-tools/glm-usage-tui/internal/models"
)

const (
	// alertThreshold is the percentage at which a desktop notification fires.
	alertThreshold = 90.0

	// sampleRetention bounds how much history the store keeps.
	sampleRetention = 7 * 24 * time.Hour
)

// notify is swappable for tests.
var notify = beeep.Notify

// Service performs quota refreshes and owns their side effects: recording
// samples and firing threshold notifications.
type Service struct {
	mu            sync.Mutex
	client        *api.Client
	store         *db.DB
	notifications bool
	alerted       map[string]bool
}

// New creates a monitor service. The store may be nil, in which case no
// history is recorded.
func New(client *api.Client, store *db.DB, notifications bool) *Service {
	return &Service{
		client:        client,
		store:         store,
		notifications: notifications,
		alerted:       make(map[string]bool),
	}
}

// SetClient swaps the API client, used when the configuration is reloaded.
func (s *Service) SetClient(client *api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Refresh performs exactly one fetch. On success the snapshot is recorded
// and threshold notifications are evaluated; recording failures are logged,
// never surfaced, so history problems cannot break the dashboard.
func (s *Service) Refresh(ctx context.Context) (*models.QuotaSnapshot, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	snap, err := client.FetchQuotaLimits(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if s.store != nil {
		if err := s.store.InsertSnapshot(snap, now); err != nil {
			logger.Error("failed to record quota samples", "error", err)
		}
		if err := s.store.Prune(sampleRetention); err != nil {
			logger.Error("failed to prune quota samples", "error", err)
		}
	}

	s.checkNotifications(snap)

	return snap, nil
}

// checkNotifications fires one desktop notification per limit when its
// percentage crosses the alert threshold upward, re-arming once it drops
// back below.
func (s *Service) checkNotifications(snap *models.QuotaSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range snap.Limits {
		l := &snap.Limits[i]
		if l.Percentage == nil {
			continue
		}

		pct := *l.Percentage
		if pct >= alertThreshold {
			if !s.alerted[l.Type] {
				s.alerted[l.Type] = true
				if s.notifications {
					title := "GLM quota alert"
					body := fmt.Sprintf("%s at %.0f%% of quota", l.Type, pct)
					if err := notify(title, body, ""); err != nil {
						logger.Error("failed to send notification", "error", err)
					}
				}
			}
		} else {
			s.alerted[l.Type] = false
		}
	}
}

// History returns recorded samples for a limit type, oldest first.
func (s *Service) History(limitType string, window time.Duration) ([]db.Sample, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.RecentSamples(limitType, window)
}

// LimitTypes returns the limit types with recorded history.
func (s *Service) LimitTypes() ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.LimitTypes()
}

// Projection estimates when a limit reaches 100% from its recent samples.
func (s *Service) Projection(limitType string) (time.Duration, bool) {
	samples, err := s.History(limitType, 2*time.Hour)
	if err != nil {
		logger.Error("failed to load samples for projection", "error", err)
		return 0, false
	}
	return ProjectDepletion(samples, time.Now())
}

// Close releases the underlying store.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
