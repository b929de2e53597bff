package client

import (
	"context"
	"errors"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token. On success the token is
// also installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "login", email, password)
}

// Register creates an account and returns its first bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "register", email, password)
}

func (c *Client) authenticate(ctx context.Context, mode, email, password string) (string, error) {
	var out authResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/"+mode, credentials{Email: email, Password: password}, authNone, "Failed", &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("response missing access_token")
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}
