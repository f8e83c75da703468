// Package tui holds the interactive prompts used by the CLI when it runs in
// a terminal.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/util"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("aborted by user")

// Accessible reports whether forms should run in accessible mode.
func Accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// ServerForm asks for the registration fields missing from prefill.
func ServerForm(prefill domain.CreateServerOpts) (*domain.CreateServerOpts, error) {
	opts := prefill

	var fields []huh.Field
	if opts.Name == "" {
		fields = append(fields, huh.NewInput().
			Title("Name").
			Description("Shown to administrators, e.g. Frankfurt 1").
			Value(&opts.Name).
			Validate(required("name")))
	}
	if opts.URL == "" {
		fields = append(fields, huh.NewInput().
			Title("URL").
			Placeholder("https://cloud.example.com").
			Value(&opts.URL).
			Validate(util.ValidateServerURL))
	}
	if opts.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Admin username").
			Value(&opts.Username).
			Validate(required("username")))
	}
	if opts.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Admin password").
			EchoMode(huh.EchoModePassword).
			Value(&opts.Password))
	}

	if len(fields) > 0 {
		if err := runForm(huh.NewGroup(fields...)); err != nil {
			return nil, err
		}
	}

	opts.Name = strings.TrimSpace(opts.Name)
	opts.URL = strings.TrimSpace(opts.URL)
	opts.Username = strings.TrimSpace(opts.Username)
	return &opts, nil
}

// Confirm asks a yes/no question. Declining returns ErrAborted.
func Confirm(title, affirmative string) error {
	ok := false
	err := runForm(huh.NewGroup(huh.NewConfirm().
		Title(title).
		Affirmative(affirmative).
		Negative("Cancel").
		Value(&ok)))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// Spin runs action behind a spinner written to w.
func Spin(w io.Writer, title string, action func(ctx context.Context) error) error {
	var actionErr error
	err := spinner.New().
		Title(title).
		Accessible(Accessible()).
		Output(w).
		ActionWithErr(func(ctx context.Context) error {
			actionErr = action(ctx)
			return nil
		}).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return ErrAborted
		}
		return err
	}
	return actionErr
}

func runForm(groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(Accessible()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
