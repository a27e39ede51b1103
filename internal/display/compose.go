package display

import (
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/controller/banner"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/widget"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/uniuri"
)

// refreshTokenLen matches the length of a hex-encoded UUID.
const refreshTokenLen = 32

// Sidebars carries the enabled widgets split by placement. Widgets parked in
// the unused slot are excluded from the display payload.
type Sidebars struct {
	Left  []models.Widget `json:"left"`
	Right []models.Widget `json:"right"`
}

// Config is the full configuration payload for display clients.
type Config struct {
	Banners  []models.Banner `json:"banners"`
	Widgets  Sidebars        `json:"widgets"`
	Settings map[string]any  `json:"settings"`
}

// Compose aggregates banners, widgets and settings into one consistent
// payload: active non-archived banners in rotation order, enabled widgets
// split left/right, and the typed settings snapshot including the refresh
// token.
func Compose(db *gorm.DB) (*Config, error) {
	banners, err := banner.ListDisplayable(db)
	if err != nil {
		return nil, err
	}

	widgets, err := widget.ListEnabled(db)
	if err != nil {
		return nil, err
	}

	sidebars := Sidebars{
		Left:  make([]models.Widget, 0, len(widgets)),
		Right: make([]models.Widget, 0, len(widgets)),
	}

	for _, w := range widgets {
		switch w.Sidebar {
		case models.SidebarLeft:
			sidebars.Left = append(sidebars.Left, w)
		case models.SidebarRight:
			sidebars.Right = append(sidebars.Right, w)
		}
	}

	settings, err := Snapshot(db, true)
	if err != nil {
		return nil, err
	}

	if banners == nil {
		banners = make([]models.Banner, 0)
	}

	return &Config{
		Banners:  banners,
		Widgets:  sidebars,
		Settings: settings,
	}, nil
}

// TriggerRefresh stores a new opaque refresh token. Display clients poll the
// token through the composed settings and reload fully when it changes; this
// is the sole forced-refresh mechanism, there is no push channel.
func TriggerRefresh(db *gorm.DB) (string, error) {
	token := uniuri.NewLen(refreshTokenLen)

	if _, err := setting.Set(db, KeyRefreshToken, token); err != nil {
		return "", err
	}

	return token, nil
}
