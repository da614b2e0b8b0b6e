package models

import "time"

// Operator represents the operators table: the admin accounts allowed to run
// assignment passes and record ratings. Passwords are bcrypt hashes.
type Operator struct {
	OperatorID int        `gorm:"primaryKey;column:operator_id" json:"operator_id"`
	Username   string     `gorm:"column:username;unique" json:"username"`
	Password   string     `gorm:"column:password" json:"-"`
	CreateAt   time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Operator) TableName() string {
	return "operators"
}
