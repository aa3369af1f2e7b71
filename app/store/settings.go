package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gotnoklu/crane/app/store/enums"
)

// settingsID is the key of the only settings row
const settingsID = 0

// UserSettings is the singleton settings record
type UserSettings struct {
	ID                    int         `db:"id" json:"id"`
	Theme                 enums.Theme `db:"theme" json:"theme"`
	ShowAppInSystemTray   bool        `db:"show_app_in_system_tray" json:"show_app_in_system_tray"`
	NotifyOnTimerComplete bool        `db:"notify_on_timer_complete" json:"notify_on_timer_complete"`
	CreatedAt             string      `db:"created_at" json:"created_at"`
	ModifiedAt            string      `db:"modified_at" json:"modified_at"`
}

// SettingsInput is the full desired state of user settings. Fields omitted by the caller keep
// their zero values and overwrite stored ones, nothing is merged.
type SettingsInput struct {
	Theme                 enums.Theme `json:"theme"`
	ShowAppInSystemTray   bool        `json:"show_app_in_system_tray"`
	NotifyOnTimerComplete bool        `json:"notify_on_timer_complete"`
}

// Settings is a repository of the singleton settings row. The row is seeded by migration
// and can only be read and updated, there is no way to insert or delete it.
type Settings struct {
	pool *Pool
}

// NewSettings makes settings repository on top of the pool
func NewSettings(pool *Pool) *Settings {
	return &Settings{pool: pool}
}

// Fetch reads the settings row, ErrSettingsMissing if the row is not there
func (s *Settings) Fetch(ctx context.Context) (UserSettings, error) {
	var res UserSettings
	err := s.pool.db.GetContext(ctx, &res, "SELECT * FROM settings WHERE id = ?", settingsID)
	if errors.Is(err, sql.ErrNoRows) {
		return UserSettings{}, ErrSettingsMissing
	}
	if err != nil {
		return UserSettings{}, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return res, nil
}

// Update overwrites all settings fields with in, an omitted theme is stored as system
func (s *Settings) Update(ctx context.Context, in SettingsInput) (enums.Outcome, error) {
	res, err := s.pool.db.ExecContext(ctx, `
		UPDATE settings
		SET theme = ?, show_app_in_system_tray = ?, notify_on_timer_complete = ?, modified_at = ?
		WHERE id = ?`,
		in.Theme.Normalize(), in.ShowAppInSystemTray, in.NotifyOnTimerComplete, s.pool.stamp(), settingsID)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to update settings: %w", err)
	}
	return outcome(res)
}
