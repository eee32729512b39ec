// Package cli implements the messagely admin command-line client:
// registering users, logging in, and listing accounts against a running
// server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// App binds the HTTP client to the terminal streams.
type App struct {
	client *Client
	in     *bufio.Reader
	out    io.Writer
}

// NewApp constructs an App talking to the server at serverAddr.
func NewApp(serverAddr string) *App {
	return &App{
		client: NewClient(serverAddr),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run dispatches the given subcommand: register, login, or users.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "users":
		return a.listUsers(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected register, login, or users)", command)
	}
}

func (a *App) register(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	firstName, err := GetSimpleText(a.in, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.in, "Last name", a.out)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.in, "Phone", a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Register(ctx, RegisterParams{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\nToken: %s\n", username, token)
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token: %s\n", token)
	return nil
}

func (a *App) listUsers(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	users, err := a.client.Users(ctx, token)
	if err != nil {
		return err
	}

	for _, u := range users {
		fmt.Fprintf(a.out, "%s\t%s %s\t%s\n", u.Username, u.FirstName, u.LastName, u.Phone)
	}
	return nil
}
