// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"regexp"
	"strings"

	"github.com/talkchat/talkchat/messaging"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// RegisterForm is the input to Register.
type RegisterForm struct {
	Email       string
	Code        string
	Username    string
	DisplayName string
	Password    string
}

// normalize applies the same trimming and case folding the backend does,
// so validation judges what will actually be sent.
func (f RegisterForm) normalize() RegisterForm {
	return RegisterForm{
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		Code:        strings.TrimSpace(f.Code),
		Username:    strings.ToLower(strings.TrimSpace(f.Username)),
		DisplayName: strings.TrimSpace(f.DisplayName),
		Password:    strings.TrimSpace(f.Password),
	}
}

func validateLogin(username, password string) error {
	var errs ValidationErrors
	if strings.TrimSpace(username) == "" {
		errs.Add("username", "username is required")
	}
	if strings.TrimSpace(password) == "" {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}

func validateEmail(errs *ValidationErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case !emailPattern.MatchString(email):
		errs.Add("email", "email address is not valid")
	}
}

func validateRegister(form RegisterForm) error {
	var errs ValidationErrors
	validateEmail(&errs, form.Email)
	if form.Code == "" {
		errs.Add("code", "verification code is required")
	}
	switch {
	case form.Username == "":
		errs.Add("username", "username is required")
	case !usernamePattern.MatchString(form.Username):
		errs.Add("username", "username must be 3-50 characters of a-z, 0-9 and _")
	}
	if form.DisplayName == "" {
		errs.Add("display_name", "display name is required")
	}
	if len([]rune(form.Password)) < MinPasswordLength {
		errs.Add("password", "password must be at least 6 characters")
	}
	return errs.Err()
}

func validateProfile(displayName string) error {
	var errs ValidationErrors
	if strings.TrimSpace(displayName) == "" {
		errs.Add("display_name", "display name is required")
	}
	return errs.Err()
}

func validateImage(image string) error {
	var errs ValidationErrors
	if strings.TrimSpace(image) == "" {
		errs.Add("image", "image is required")
		return errs.Err()
	}
	decoded, err := messaging.DecodeImage(image)
	switch {
	case err != nil:
		errs.Add("image", "image is not valid base64")
	case len(decoded) > messaging.MaxImageSize:
		errs.Add("image", "image is larger than 5 MB")
	}
	return errs.Err()
}

func validateUserID(userID int64) error {
	var errs ValidationErrors
	if userID <= 0 {
		errs.Add("user_id", "user id must be positive")
	}
	return errs.Err()
}

func validateRole(userID int64, role messaging.Role) error {
	var errs ValidationErrors
	if userID <= 0 {
		errs.Add("user_id", "user id must be positive")
	}
	if !role.Valid() {
		errs.Add("role", "role must be owner, admin, vip or member")
	}
	return errs.Err()
}
