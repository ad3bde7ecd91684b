package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account. Mismatched passwords are rejected before
// anything is written; duplicate email or username surface as
// gorm.ErrDuplicatedKey.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	user := &models.User{
		Email:     strings.TrimSpace(req.Email),
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}

	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of req. Email and verification
// state are not editable here. An empty date_of_birth clears it.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse(models.DateLayout, *req.DateOfBirth)
			if err != nil {
				return nil, err
			}
			user.DateOfBirth = &dob
		}
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Stats counts every post by the user, drafts included.
func (s *UserService) Stats(ctx context.Context, user *models.User) (*models.UserStats, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", user.ID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		PostsCount:  count,
		IsVerified:  user.IsVerified,
		MemberSince: user.CreatedAt,
	}, nil
}

func (s *UserService) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// ResetPassword sets a new password for the holder of a reset token. The
// fingerprint ties the token to the password it was issued against, so a
// token stops working once it has been used.
func (s *UserService) ResetPassword(ctx context.Context, userID uint, fingerprint, password, passwordConfirm string) (*models.User, error) {
	if password != passwordConfirm {
		return nil, ErrPasswordMismatch
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	if !user.IsActive || user.PasswordFingerprint() != fingerprint {
		return nil, ErrInvalidResetToken
	}

	user.Password = password
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(user).
		UpdateColumn("password", user.Password).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}
