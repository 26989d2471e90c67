package user

import (
	"errors"
	"fmt"
)

var ErrMissingUserID = errors.New("missing userId")

// User is a registered account
type User struct {
	UserID   string
	Password string
	Name     string
	Email    string
}

// FromParams builds a User from sign-up form parameters
func FromParams(params map[string]string) (User, error) {
	u := User{
		UserID:   params["userId"],
		Password: params["password"],
		Name:     params["name"],
		Email:    params["email"],
	}
	if u.UserID == "" {
		return User{}, ErrMissingUserID
	}
	return u, nil
}

// String omits the password
func (u User) String() string {
	return fmt.Sprintf("User{userId=%s, name=%s, email=%s}", u.UserID, u.Name, u.Email)
}
