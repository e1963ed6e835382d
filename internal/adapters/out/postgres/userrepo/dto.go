// Package userrepo provides the read-only user directory lookups backed by
// the users table. Account management happens elsewhere; the coordinator
// only reads names and push addresses.
package userrepo

// UserDTO represents one row of the users table.
type UserDTO struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"type:varchar(255)"`
	Role      string  `gorm:"type:varchar(32);index"`
	PushToken *string `gorm:"type:varchar(512)"`
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

// RoleCourier is the role value stored for courier accounts.
const RoleCourier = "courier"
