package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/terraverde/terraverde-api/config"
)

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/devstorage.full_control",
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/userinfo.email",
}

// InitializeFirebase builds the Firebase Admin app from either a credentials
// file or the discrete service-account settings.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	opt, err := clientOption(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		DatabaseURL:   cfg.DatabaseURL,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// NewAuthClient returns the Auth client of app.
func NewAuthClient(ctx context.Context, app *firebase.App) (*fbauth.Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return authClient, nil
}

func clientOption(ctx context.Context, cfg *config.FirebaseConfig) (option.ClientOption, error) {
	if cfg.CredentialsPath != "" {
		return option.WithCredentialsFile(cfg.CredentialsPath), nil
	}
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("firebase credentials are not configured")
	}

	raw, err := serviceAccountJSON(cfg)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, firebaseScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Firebase service account: %w", err)
	}
	return option.WithCredentials(creds), nil
}

// serviceAccountJSON assembles a service-account key from the discrete
// settings. Escaped newlines in the private key are restored.
func serviceAccountJSON(cfg *config.FirebaseConfig) ([]byte, error) {
	key := map[string]string{
		"type":           "service_account",
		"project_id":     cfg.ProjectID,
		"private_key_id": cfg.PrivateKeyID,
		"private_key":    strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"client_email":   cfg.ClientEmail,
		"client_id":      cfg.ClientID,
		"auth_uri":       "https://accounts.google.com/o/oauth2/auth",
		"token_uri":      "https://oauth2.googleapis.com/token",
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}
	return raw, nil
}
