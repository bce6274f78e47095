package leave

import "time"

type Request struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;not null;index"`
	ApproverID int64     `gorm:"column:approver_id;not null;index"`
	Type       string    `gorm:"column:type;not null"`
	FromDate   time.Time `gorm:"column:from_date;not null"`
	ToDate     time.Time `gorm:"column:to_date;not null"`
	Comment    *string   `gorm:"column:comment"`
	Status     string    `gorm:"column:status;not null;index"`
	Version    int64     `gorm:"column:version;not null;default:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "leave_requests"
}
