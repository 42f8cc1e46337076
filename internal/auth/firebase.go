package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/fmuoria/career-coach/internal/apperr"
)

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Firebase verifies Firebase ID tokens with the Admin SDK
type Firebase struct {
	client *fbauth.Client
}

// LoadCredentials returns the service account JSON, preferring the inline
// value over the file.
func LoadCredentials(inline, file string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if file == "" {
		return nil, errors.New("firebase credentials are not configured")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read firebase credentials: %w", err)
	}
	return data, nil
}

// NewFirebase initializes the Admin SDK from service account JSON
func NewFirebase(ctx context.Context, credentialsJSON []byte) (*Firebase, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, firebaseScopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: creds.ProjectID}, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsCertificateFetchFailed(err) {
			return nil, apperr.Internal("Authentication error", err)
		}
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Invalid or expired token", err)
	}

	return &Identity{
		SubjectID: decoded.UID,
		Email:     claimEmail(decoded.Claims),
	}, nil
}

// claimEmail falls back to the phone number for phone-only accounts
func claimEmail(claims map[string]interface{}) string {
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	if phone, ok := claims["phone_number"].(string); ok {
		return phone
	}
	return ""
}
