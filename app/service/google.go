package service

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/space2study/ms-go-api/config"
)

// GoogleVerifier validates Google ID tokens against the configured OAuth
// client id and extracts the asserted identity.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(cfg config.GoogleConfig) *GoogleVerifier {
	return &GoogleVerifier{clientID: cfg.ClientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idTokenString string) (*GoogleTicket, error) {
	if v.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google id token has no email claim")
	}

	firstName, _ := payload.Claims["given_name"].(string)
	lastName, _ := payload.Claims["family_name"].(string)

	return &GoogleTicket{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, nil
}
