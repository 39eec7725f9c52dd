package cli

import (
	"context"
	"os"
)

func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, userName, password); err != nil {
		printFn("Login failed:", err.Error())
		return err
	}

	a.userName = userName
	printFn("Signed in as", userName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printFn("Logout failed:", err.Error())
		return err
	}
	a.userName = ""
	printFn("Signed out")
	return nil
}
