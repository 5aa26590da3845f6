package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleAll   Role = "all" // recipient-role marker only, never a user role
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Role         Role `gorm:"index"`
}
