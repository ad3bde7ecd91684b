package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Email       string         `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username    string         `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	FirstName   string         `json:"first_name" gorm:"size:150"`
	LastName    string         `json:"last_name" gorm:"size:150"`
	Bio         string         `json:"bio" gorm:"size:500"`
	DateOfBirth *time.Time     `json:"date_of_birth"`
	Avatar      string         `json:"avatar"`
	IsVerified  bool           `json:"is_verified" gorm:"default:false"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	IsStaff     bool           `json:"is_staff" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Posts       []Post         `json:"-" gorm:"foreignKey:AuthorID"`
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=150"`
	FirstName       string `json:"first_name" binding:"required,max=150"`
	LastName        string `json:"last_name" binding:"required,max=150"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=150"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Avatar      *string `json:"avatar"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type UserProfileResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Bio         string    `json:"bio"`
	DateOfBirth *string   `json:"date_of_birth"`
	Avatar      string    `json:"avatar"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserListResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

type UserStats struct {
	PostsCount  int64     `json:"posts_count"`
	IsVerified  bool      `json:"is_verified"`
	MemberSince time.Time `json:"member_since"`
}

func (u *User) String() string {
	return u.Email
}

// FullName joins first and last name, trimming the separator when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// PasswordFingerprint identifies the current password hash without exposing
// it. Reset tokens embed it so they stop working once the password changes.
func (u *User) PasswordFingerprint() string {
	sum := sha256.Sum256([]byte(u.Password))
	return hex.EncodeToString(sum[:8])
}

func NewUserProfileResponse(u *User) UserProfileResponse {
	resp := UserProfileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func NewUserListResponse(u *User) UserListResponse {
	return UserListResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName(),
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}
