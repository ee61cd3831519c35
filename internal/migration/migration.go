package migration

import (
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	feedbackdomain "github.com/smallbiznis/printtrack/internal/feedback/domain"
	jobdomain "github.com/smallbiznis/printtrack/internal/job/domain"
	projectdomain "github.com/smallbiznis/printtrack/internal/project/domain"
	settingsdomain "github.com/smallbiznis/printtrack/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Schema is created automatically on startup so a fresh install is
// usable without a separate migration step.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&jobdomain.Job{},
		&feedbackdomain.Feedback{},
		&projectdomain.Project{},
		&settingsdomain.Setting{},
		&auditdomain.AuthAttempt{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return Run(conn)
	}),
)
