// Package domain defines the persistence models for the power status record
// and its notification subscribers. These types are mapped with GORM and form
// the core data layer of the tracker.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// PowerStatusID is the primary key of the single power status row. The
// tracker only ever reads and writes this row.
const PowerStatusID uint = 1

// PowerStatus is the current on/off state of the supply.
//
// Fields:
//   - ID: always PowerStatusID.
//   - IsOn: true when power is available.
//   - LastUpdated: refreshed on every save (UTC).
type PowerStatus struct {
	ID          uint      `json:"-"            gorm:"primaryKey;autoIncrement:false"`
	IsOn        bool      `json:"is_on"        gorm:"not null;default:false"`
	LastUpdated time.Time `json:"last_updated" gorm:"not null"`
}

// TableName returns the database table name for PowerStatus.
func (PowerStatus) TableName() string { return "power_status" }

// Touch stamps the record as saved at now.
func (p *PowerStatus) Touch(now time.Time) {
	p.LastUpdated = now.UTC()
}

// Subscriber is a Telegram chat that receives status change notifications.
// A chat is registered at most once (unique ChatID) and is never deleted;
// removal and automatic deactivation only clear IsActive.
//
// Fields:
//   - ID: surrogate primary key.
//   - ChatID: Telegram chat identifier (unique).
//   - Username: optional Telegram @username, stored without the '@'.
//   - Name: optional display name.
//   - IsActive: whether notifications are delivered to this chat.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Subscriber struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	ChatID    int64     `json:"chat_id"    gorm:"not null;uniqueIndex:ux_subscriber_chat"`
	Username  string    `json:"username"   gorm:"type:varchar(255);not null;default:''"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	IsActive  bool      `json:"is_active"  gorm:"not null;default:true;index:idx_subscriber_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Subscriber.
func (Subscriber) TableName() string { return "telegram_subscribers" }

// String renders the subscriber the way listings show it:
// "<chat_id>: <name> (@<username>)".
func (s Subscriber) String() string {
	return fmt.Sprintf("%d: %s (@%s)", s.ChatID, s.Name, strings.TrimPrefix(s.Username, "@"))
}
