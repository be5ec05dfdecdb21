package models

import "time"

// Client is an end-customer of a tenant business.
type Client struct {
	BaseModel
	BusinessID   string    `gorm:"not null;index" json:"business_id"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        string    `gorm:"not null;index" json:"phone"`
	Visits       int       `gorm:"not null;default:0" json:"visits"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	LastVisitAt  time.Time `json:"last_visit_at"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
}

// LastVisitDays returns whole days since the last visit.
func (c *Client) LastVisitDays(now time.Time) int {
	return int(now.Sub(c.LastVisitAt).Hours() / 24)
}

// DaysSinceRegistration returns whole days since signup.
func (c *Client) DaysSinceRegistration(now time.Time) int {
	return int(now.Sub(c.RegisteredAt).Hours() / 24)
}
