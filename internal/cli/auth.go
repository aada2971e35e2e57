package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/common"
)

func (a *App) credentials(args []string) (string, []byte, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		u, err := getSimpleText(a.reader, "Username", a.out)
		if err != nil {
			return "", nil, err
		}
		username = u
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Register creates an account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. Use 'login' to sign in.\n", username)
	return nil
}

// Login authenticates and opens the root folder.
func (a *App) Login(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, username, password)
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "username", username, "error", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (session valid until %s)\n",
		sess.Username, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))

	if err := a.store.Navigate(ctx, nil); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	sess, err := a.auth.Session(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "%s (session valid until %s)\n",
		sess.Username, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Passwd changes the logged-in user's password. The new password is asked
// twice.
func (a *App) Passwd(ctx context.Context) error {
	sess, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}

	current, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	repeat, err := getPassword(a.reader, "Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	if !bytes.Equal(next, repeat) {
		return errors.New("passwords do not match")
	}

	if err := a.auth.ChangePassword(ctx, sess.Username, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// Refresh extends the current session.
func (a *App) Refresh(ctx context.Context) error {
	sess, err := a.auth.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Session extended until %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
