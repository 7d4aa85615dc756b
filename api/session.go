package api

import (
	"fmt"

	"accounthub/user-api/model"
	"accounthub/user-api/security"
)

// issueSession mints a signed token for the user and records it in the
// session list. Every register and login call opens a fresh session,
// existing ones stay untouched
func (a *API) issueSession(userID string) (string, error) {
	token, err := security.MakeSessionToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token, %w", err)
	}

	err = a.DB.Create(&model.SessionToken{
		UserID: userID,
		Token:  token,
	}).Error
	if err != nil {
		return "", fmt.Errorf("failed to persist session token, %w", err)
	}

	return token, nil
}
