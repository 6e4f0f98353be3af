package model

import (
	"time"

	"gorm.io/datatypes"
)

// User is a platform user. Role is set at provisioning time.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:120;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Role      string    `gorm:"size:20;not null;default:creator"` // admin, creator
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Clips []Clip `gorm:"foreignKey:UserID"`
}

func (User) TableName() string { return "users" }

// TiktokAccount is a managed TikTok account. Tokens are present only
// after an OAuth exchange; IsActive is forced false when tokens are cleared.
type TiktokAccount struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	DisplayName    string     `gorm:"size:120;not null"`
	Username       string     `gorm:"size:120;not null;index"`
	TiktokUserID   *string    `gorm:"size:64;uniqueIndex"`
	AccessToken    *string    `gorm:"size:1024"`
	RefreshToken   *string    `gorm:"size:1024"`
	TokenExpiresAt *time.Time
	FollowerCount  int64     `gorm:"not null;default:0"`
	IsActive       bool      `gorm:"not null;default:true"`
	CloudPhoneID   *string   `gorm:"size:64;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	CloudPhone *CloudPhone `gorm:"foreignKey:CloudPhoneID"`
}

func (TiktokAccount) TableName() string { return "tiktok_accounts" }

// UserTiktokAccount links a user to a TiktokAccount. Disconnect is
// reference-counted over these rows.
type UserTiktokAccount struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_tiktok_account"`
	TiktokAccountID string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_tiktok_account;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (UserTiktokAccount) TableName() string { return "user_tiktok_accounts" }

// CloudPhone is a cached mirror of an automation-provider device.
// ID is the provider's device id; rows are written only by provider sync.
type CloudPhone struct {
	ID          string         `gorm:"size:64;primaryKey"`
	SerialName  string         `gorm:"size:120;not null"`
	Status      string         `gorm:"size:32;not null"`
	ProxyServer string         `gorm:"size:255"`
	ProxyPort   int            `gorm:"not null;default:0"`
	Country     string         `gorm:"size:64"`
	Raw         datatypes.JSON `gorm:"column:raw"`
	SyncedAt    time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (CloudPhone) TableName() string { return "cloud_phones" }

// Clip is a creator-uploaded video tracked through review and publish.
type Clip struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	UserID          string  `gorm:"type:uuid;not null;index"`
	Title           string  `gorm:"size:256;not null"`
	Description     *string `gorm:"size:4000"`
	VideoURL        string  `gorm:"size:1024;not null"`
	ThumbnailURL    *string `gorm:"size:1024"`
	ScheduledAt     *time.Time
	TiktokAccountID *string `gorm:"type:uuid;index"`
	TiktokVideoID   *string `gorm:"size:64;index"`
	TiktokVideoURL  *string `gorm:"size:1024"`
	GeelarkTaskID   *string `gorm:"size:64"`
	Status          string  `gorm:"size:20;not null;default:draft;index"`
	FailReason      *string `gorm:"size:1024"`
	PublishedAt     *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	TiktokAccount *TiktokAccount `gorm:"foreignKey:TiktokAccountID"`
	Stats         []ClipStats    `gorm:"foreignKey:ClipID"`
}

func (Clip) TableName() string { return "clips" }

// ClipStats is an append-only metric snapshot for one clip.
// "Current" metrics are the row with the greatest RecordedAt, never an update.
type ClipStats struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ClipID     string    `gorm:"type:uuid;not null;index:idx_clip_stats_clip_recorded"`
	RecordedAt time.Time `gorm:"not null;index:idx_clip_stats_clip_recorded"`
	Views      int64     `gorm:"not null;default:0"`
	Likes      int64     `gorm:"not null;default:0"`
	Comments   int64     `gorm:"not null;default:0"`
	Shares     int64     `gorm:"not null;default:0"`
}

func (ClipStats) TableName() string { return "clip_stats" }

// Campaign is a reporting group of clips.
type Campaign struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Status    string    `gorm:"size:20;not null;default:active"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Clips []CampaignClip `gorm:"foreignKey:CampaignID"`
}

func (Campaign) TableName() string { return "campaigns" }

// CampaignClip is a campaign membership join row.
type CampaignClip struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	CampaignID string    `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_clip"`
	ClipID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_clip;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (CampaignClip) TableName() string { return "campaign_clips" }

// Proxy is a cached mirror of an automation-provider proxy record.
// ID is the provider's proxy id.
type Proxy struct {
	ID        string    `gorm:"size:64;primaryKey"`
	Scheme    string    `gorm:"size:16;not null;default:socks5"`
	Server    string    `gorm:"size:255;not null"`
	Port      int       `gorm:"not null"`
	Username  string    `gorm:"size:120"`
	Password  string    `gorm:"size:120"`
	Country   string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Assignments []ProxyAssignment `gorm:"foreignKey:ProxyID"`
}

func (Proxy) TableName() string { return "proxies" }

// ProxyAssignment binds a cloud phone to a proxy. A device holds at most
// one assignment; the per-proxy cap is enforced in the service.
type ProxyAssignment struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	ProxyID      string    `gorm:"size:64;not null;index"`
	CloudPhoneID string    `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (ProxyAssignment) TableName() string { return "proxy_assignments" }

// Entities returns every GORM entity, in dependency order (for AutoMigrate).
func Entities() []any {
	return []any{
		&User{},
		&CloudPhone{},
		&TiktokAccount{},
		&UserTiktokAccount{},
		&Clip{},
		&ClipStats{},
		&Campaign{},
		&CampaignClip{},
		&Proxy{},
		&ProxyAssignment{},
	}
}
