package models

// Role names mirror the roles the client knows about.
const (
	RoleUser      = "user"
	RoleModerator = "mod"
	RoleAdmin     = "admin"
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null;type:varchar(20)" json:"name"`
}

// DefaultRoles are seeded on startup. The first one is assigned at registration.
var DefaultRoles = []string{RoleUser, RoleModerator, RoleAdmin}
