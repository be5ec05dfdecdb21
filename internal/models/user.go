package models

// User is an operator account: the platform superadmin or a business
// owner/staff member.
type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Phone        string   `gorm:"not null;uniqueIndex" json:"phone"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"not null;default:'STAFF'" json:"role"`
	BusinessID   *string  `gorm:"index" json:"business_id,omitempty"` // nil for superadmin
}
