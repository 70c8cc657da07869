package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonio-alexander/go-employee-manager/internal/auth"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func validateUserPartial(userPartial data.UserPartial) error {
	if userPartial.Email != nil && !auth.IsValidEmail(*userPartial.Email) {
		return fmt.Errorf("%w: enter a valid email address", data.ErrInvalidInput)
	}
	if userPartial.FirstName != nil && len(*userPartial.FirstName) > data.FirstNameLengthMax {
		return fmt.Errorf("%w: first name can't exceed %d characters",
			data.ErrInvalidInput, data.FirstNameLengthMax)
	}
	if userPartial.LastName != nil && len(*userPartial.LastName) > data.LastNameLengthMax {
		return fmt.Errorf("%w: last name can't exceed %d characters",
			data.ErrInvalidInput, data.LastNameLengthMax)
	}
	if userPartial.Phone != nil && len(*userPartial.Phone) > data.PhoneLengthMax {
		return fmt.Errorf("%w: phone number can't exceed %d characters",
			data.ErrInvalidInput, data.PhoneLengthMax)
	}
	return nil
}

func (l *logic) Login(ctx context.Context, email, password string) (*data.TokenPair, error) {
	user, err := l.Sql.UserReadByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, data.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, data.ErrInvalidCredentials
	}
	passwordHash, err := l.Sql.UserPasswordRead(ctx, user.Id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, data.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePasswords(passwordHash, []byte(password)); err != nil {
		return nil, data.ErrInvalidCredentials
	}
	if err := l.Sql.UserLastLoginUpdate(ctx, user.Id); err != nil {
		l.Error(ctx, "error while updating last login for user (%d): %s", user.Id, err)
	}
	l.Debug(ctx, "user (%d) logged in", user.Id)
	return l.auth.GeneratePair(user)
}

func (l *logic) TokenRefresh(ctx context.Context, refreshToken string) (*data.TokenPair, error) {
	claims, err := l.auth.ValidateToken(refreshToken, data.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := l.Sql.UserRead(ctx, claims.UserId)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, data.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, data.ErrTokenInvalid
	}
	//the claims could be stale, so the pair is rebuilt from the user
	return l.auth.GeneratePair(user)
}

func (l *logic) Register(ctx context.Context, userPartial data.UserPartial, password2 string) (*data.User, *data.TokenPair, error) {
	if userPartial.Email == nil || *userPartial.Email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", data.ErrInvalidInput)
	}
	if userPartial.FirstName == nil || *userPartial.FirstName == "" {
		return nil, nil, fmt.Errorf("%w: first name is required", data.ErrInvalidInput)
	}
	if userPartial.LastName == nil || *userPartial.LastName == "" {
		return nil, nil, fmt.Errorf("%w: last name is required", data.ErrInvalidInput)
	}
	if err := validateUserPartial(userPartial); err != nil {
		return nil, nil, err
	}
	if userPartial.Password == nil || *userPartial.Password == "" {
		return nil, nil, fmt.Errorf("%w: password is required", data.ErrInvalidInput)
	}
	if *userPartial.Password != password2 {
		return nil, nil, data.ErrPasswordMismatch
	}
	if err := auth.IsStrongPassword(*userPartial.Password); err != nil {
		return nil, nil, err
	}
	passwordHash, err := auth.HashAndSaltPassword([]byte(*userPartial.Password))
	if err != nil {
		return nil, nil, err
	}
	user, err := l.Sql.UserCreate(ctx, userPartial, passwordHash)
	if err != nil {
		return nil, nil, err
	}
	l.Info(ctx, "registered user (%d) with email %s", user.Id, user.Email)
	tokenPair, err := l.auth.GeneratePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokenPair, nil
}

func (l *logic) PasswordChange(ctx context.Context, userId int64, oldPassword, newPassword string) error {
	passwordHash, err := l.Sql.UserPasswordRead(ctx, userId)
	if err != nil {
		return err
	}
	if err := auth.ComparePasswords(passwordHash, []byte(oldPassword)); err != nil {
		return data.ErrOldPasswordWrong
	}
	if err := auth.IsStrongPassword(newPassword); err != nil {
		return err
	}
	newPasswordHash, err := auth.HashAndSaltPassword([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := l.Sql.UserPasswordUpdate(ctx, userId, newPasswordHash); err != nil {
		return err
	}
	l.Info(ctx, "user (%d) changed their password", userId)
	return nil
}

func (l *logic) ProfileUpdate(ctx context.Context, userId int64, userPartial data.UserPartial) (*data.User, error) {
	if err := validateUserPartial(userPartial); err != nil {
		return nil, err
	}
	//the password has its own flow and is never updated here
	userPartial.Password = nil
	user, err := l.Sql.UserUpdate(ctx, userId, userPartial)
	if err != nil {
		return nil, err
	}
	l.Debug(ctx, "user (%d) updated their profile", userId)
	return user, nil
}
