package models

import (
	"time"
)

// ConnectedClient tracks a display client recently seen fetching the live
// configuration. Presence is ephemeral: the whole set is cleared at process
// start and entries expire logically once LastSeen falls outside the window.
type ConnectedClient struct {
	IPAddress string `gorm:"primaryKey;size:50"`
	LastSeen  time.Time
}
