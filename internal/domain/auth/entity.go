package auth

import "time"

// StaffAccount is a hospital employee allowed to operate the records UI.
type StaffAccount struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	EmployeeID   string    `gorm:"column:employee_id;uniqueIndex" json:"employee_id"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Name         string    `gorm:"column:name" json:"name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (StaffAccount) TableName() string { return "staff_accounts" }

// OneTimeCode is a live SMS verification code. The unique index on mobile
// keeps at most one live code per number; re-issuing replaces the old row.
type OneTimeCode struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Mobile    string    `gorm:"column:mobile;uniqueIndex"`
	Code      string    `gorm:"column:code"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (OneTimeCode) TableName() string { return "one_time_codes" }
