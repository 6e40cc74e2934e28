package cli

import (
	"context"
	"fmt"
	"os"
	"time"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login installs the operator's session. The bearer token is issued by the
// external auth collaborator; the operator pastes it here without echo.
// After a successful login the shared cache is rehydrated.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter operator name", os.Stdout)
	if err != nil {
		return err
	}

	token, err := getSecret("Enter access token", os.Stdout)
	if err != nil {
		return err
	}

	a.session.Set(userName, token)
	if !a.session.Valid(time.Now()) {
		a.session.Clear()
		return fmt.Errorf("token is expired or empty")
	}

	if err := a.stateService.Rehydrate(ctx); err != nil {
		// Login still stands; the cache refresher will retry.
		a.logger.Warn(ctx, "initial state load failed", "error", err)
	}

	fmt.Println("Success!")
	return nil
}

func (a *App) Logout(_ context.Context) error {
	a.session.Clear()
	fmt.Println("Logged out")
	return nil
}
