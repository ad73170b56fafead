package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"
)

const codeTTL = 5 * time.Minute

type tokenIssuer interface {
	GenerateToken(staffID int64, employeeID string) (string, error)
}

// Service contains the business logic for staff login and OTP step-up.
type Service struct {
	repo Repository
	jwt  tokenIssuer
	sms  Sender
}

func NewService(repo Repository, jwt tokenIssuer, sms Sender) *Service {
	return &Service{repo: repo, jwt: jwt, sms: sms}
}

type LoginResult struct {
	Staff       *StaffAccount
	AccessToken string
}

// Login checks the employee credentials. Whether the account is unknown or
// the password is wrong, the caller sees the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, employeeID, password string) (*LoginResult, error) {
	staff, err := s.repo.GetStaffByEmployeeID(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(password, staff.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(staff.ID, staff.EmployeeID)
	if err != nil {
		return nil, err
	}

	staff.PasswordHash = ""
	return &LoginResult{Staff: staff, AccessToken: token}, nil
}

// SendOTP issues a fresh 6-digit code for the mobile number, invalidating
// any previous one, and hands it to the SMS sender. Only the expiry is
// returned; the code itself stays out-of-band.
func (s *Service) SendOTP(ctx context.Context, mobile string) (time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	otc := &OneTimeCode{
		Mobile:    strings.TrimSpace(mobile),
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(codeTTL),
	}
	if err := s.repo.ReplaceCode(ctx, otc); err != nil {
		return time.Time{}, err
	}

	if err := s.sms.SendCode(ctx, otc.Mobile, code); err != nil {
		return time.Time{}, err
	}
	return otc.ExpiresAt, nil
}

// VerifyOTP checks the code for a mobile number. An expired code is
// reported distinctly from a wrong one; a verified code is consumed and
// cannot be replayed.
func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) error {
	rec, err := s.repo.GetCodeByMobile(ctx, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return err
	}

	if rec.Code != code {
		return ErrCodeInvalid
	}
	if !rec.ExpiresAt.After(time.Now()) {
		return ErrCodeExpired
	}

	return s.repo.DeleteCode(ctx, rec.ID)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
