// Package activity records the best-effort audit trail of account and
// back-office actions.
package activity

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	activityRepo "github.com/mrlokans/tourism/internal/database/activity"
	"github.com/mrlokans/tourism/internal/entities"
)

// Actor roles. RoleAdmin rows go to admin_activity, everything else to
// cloud_activity.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

const maxActionLen = 500

// Recorder writes activity rows on the connection it was built with.
type Recorder struct {
	repo   *activityRepo.Repository
	logger *zap.Logger
}

func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: activityRepo.NewRepository(db), logger: logger}
}

// Record appends one audit row. It never fails; write errors are logged.
func (r *Recorder) Record(ctx context.Context, actorID *uint, role, action string) {
	action = truncate(action, maxActionLen)

	var err error
	if role == RoleAdmin {
		err = r.repo.WithContext(ctx).LogAdmin(&entities.AdminActivity{AdminID: actorID, Role: role, Action: action})
	} else {
		err = r.repo.WithContext(ctx).LogCloud(&entities.CloudActivity{UserID: actorID, Role: role, Action: action})
	}
	if err != nil {
		r.logger.Error("failed to record activity",
			zap.String("role", role),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ID is a helper for passing a known actor id to Record.
func ID(id uint) *uint {
	return &id
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
