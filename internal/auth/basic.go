// Package auth provides the credential material attached to API requests.
package auth

import "encoding/base64"

// BasicCredentials is a username/password pair sent with HTTP basic auth.
type BasicCredentials struct {
	Username string
	Password string
}

// NewBasicCredentials creates basic auth credentials.
func NewBasicCredentials(username, password string) BasicCredentials {
	return BasicCredentials{Username: username, Password: password}
}

// Authorization returns the value of the Authorization header.
func (c BasicCredentials) Authorization() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))

	return "Basic " + token
}

// Headers returns the headers carrying the credentials.
func (c BasicCredentials) Headers() map[string]string {
	return map[string]string{
		"Authorization": c.Authorization(),
	}
}

// String masks the password so credentials can be logged.
func (c BasicCredentials) String() string {
	return c.Username + ":***"
}
