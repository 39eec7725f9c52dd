package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mgichure/EMIS/internal/client/api"
	"github.com/mgichure/EMIS/internal/client/repositories/metadata"
	"github.com/mgichure/EMIS/internal/client/store"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/dbx"
)

// AuthService signs staff in against the remote service and keeps the
// session token locally so the app restarts signed-in while the token is
// still valid.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	// CurrentUser returns the signed-in username, or ErrUnauthorized when
	// nobody is signed in or the cached token has expired.
	CurrentUser(ctx context.Context) (string, error)
	// Restore re-installs a cached session into the API client on startup.
	Restore(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client *api.Client
	store  *store.Store
}

func NewAuthService(client *api.Client, st *store.Store) AuthService {
	return &authService{client: client, store: st}
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	err = dbx.WithTx(ctx, a.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyUsername, []byte(username))
	})
	if err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	a.client.SetToken(token)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, a.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, metadata.KeyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, metadata.KeyUsername)
	})
	if err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}

	a.client.ClearToken()
	return nil
}

func (a *authService) CurrentUser(ctx context.Context) (string, error) {
	token, err := a.store.Repos.Metadata.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return "", err
	}
	if len(token) == 0 {
		return "", common.ErrUnauthorized
	}

	if err := checkTokenExpiry(string(token), time.Now()); err != nil {
		return "", err
	}

	username, err := a.store.Repos.Metadata.Get(ctx, metadata.KeyUsername)
	if err != nil {
		return "", err
	}
	return string(username), nil
}

func (a *authService) Restore(ctx context.Context) error {
	token, err := a.store.Repos.Metadata.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		return nil
	}
	if err := checkTokenExpiry(string(token), time.Now()); err != nil {
		return err
	}
	a.client.SetToken(string(token))
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// checkTokenExpiry inspects the token's exp claim without verifying the
// signature; the server remains the authority, this only avoids replaying
// requests with a token known to be stale.
func checkTokenExpiry(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("%w: malformed token", common.ErrUnauthorized)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: malformed exp claim", common.ErrUnauthorized)
	}
	if exp != nil && exp.Before(now) {
		return common.ErrTokenExpired
	}
	return nil
}
