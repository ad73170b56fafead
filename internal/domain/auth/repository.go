package auth

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateStaff(ctx context.Context, s *StaffAccount) error
	GetStaffByEmployeeID(ctx context.Context, employeeID string) (*StaffAccount, error)
	ReplaceCode(ctx context.Context, code *OneTimeCode) error
	GetCodeByMobile(ctx context.Context, mobile string) (*OneTimeCode, error)
	DeleteCode(ctx context.Context, id int64) error
	DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStaff(ctx context.Context, s *StaffAccount) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) GetStaffByEmployeeID(ctx context.Context, employeeID string) (*StaffAccount, error) {
	var s StaffAccount
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReplaceCode inserts a fresh code for a mobile number, dropping any code
// that was still live for it. Done in one transaction so the unique index
// on mobile is never violated by a concurrent re-issue.
func (r *repository) ReplaceCode(ctx context.Context, code *OneTimeCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mobile = ?", code.Mobile).Delete(&OneTimeCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *repository) GetCodeByMobile(ctx context.Context, mobile string) (*OneTimeCode, error) {
	var c OneTimeCode
	err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) DeleteCode(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&OneTimeCode{}).Error
}

// DeleteExpiredCodes purges codes whose expiry is in the past. Codes that
// were sent but never verified are only ever removed here or by a re-issue,
// so this is what the otp_cleanup binary runs on a schedule.
func (r *repository) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&OneTimeCode{})
	return res.RowsAffected, res.Error
}
