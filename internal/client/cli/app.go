// Package cli implements the interactive terminal client: a small command
// loop for auth and response browsing, with the survey itself handled by
// the wizard in the tui package.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifecheck/survey/internal/client/api"
	"github.com/lifecheck/survey/internal/client/session"
	"github.com/lifecheck/survey/internal/client/tui"
	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/models/dto"
)

// App holds the client-side session context: the signed-in user, the API
// client carrying the token, and the persistent session store.
type App struct {
	client *api.Client
	store  *session.Store
	user   *dto.PublicUser
	reader *bufio.Reader
	out    io.Writer
	wizard func(tui.SubmitFunc) (tui.Model, error)
}

// NewApp wires the client against the given API endpoint and session store.
func NewApp(client *api.Client, store *session.Store, in io.Reader, out io.Writer) *App {
	return &App{
		client: client,
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
		wizard: runWizardProgram,
	}
}

func runWizardProgram(submit tui.SubmitFunc) (tui.Model, error) {
	p := tea.NewProgram(tui.NewWizard(submit))
	final, err := p.Run()
	if err != nil {
		return tui.Model{}, err
	}
	return final.(tui.Model), nil
}

// Restore loads a previously saved session, if any.
func (a *App) Restore() {
	sess, err := a.store.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			fmt.Fprintf(a.out, "warning: %v\n", err)
		}
		return
	}
	a.client.SetToken(sess.Token)
	a.user = &sess.User
	fmt.Fprintf(a.out, "Resumed session for %s\n", sess.User.Username)
}

// Run starts the command loop. It exits on EOF or the exit command.
func (a *App) Run(ctx context.Context) {
	for {
		fmt.Fprintf(a.out, "survey%s> ", a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.Fields(line)
		if len(cmd) == 0 {
			continue
		}

		switch cmd[0] {
		case "help":
			a.printHelp()
		case "signup":
			a.report(a.signup(ctx))
		case "login":
			a.report(a.login(ctx))
		case "logout":
			a.report(a.logout())
		case "whoami":
			a.report(a.whoami(ctx))
		case "survey":
			a.report(a.runSurvey(ctx))
		case "list":
			a.report(a.list(ctx))
		case "show":
			id := ""
			if len(cmd) > 1 {
				id = cmd[1]
			}
			a.report(a.show(ctx, id))
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command: %s (try help)\n", cmd[0])
		}
	}
}

func (a *App) prompt() string {
	if a.user == nil {
		return ""
	}
	return " " + a.user.Username
}

func (a *App) printHelp() {
	if a.user == nil {
		fmt.Fprintln(a.out, "Available commands: signup, login, help, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: survey, list, show [id], whoami, logout, help, exit")
}

// report prints command errors without breaking the loop. Server messages
// pass through as-is; transport problems surface generically.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(a.out, "Error: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(a.out, "Error: request failed (%v)\n", err)
}

func (a *App) promptCredentials() (string, string, error) {
	username, err := promptLine(a.reader, "Username: ", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := promptPassword("Password: ", a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (a *App) signup(ctx context.Context) error {
	username, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	resp, err := a.client.Signup(ctx, username, password)
	if err != nil {
		return err
	}
	a.establish(resp.Token, resp.User)
	fmt.Fprintf(a.out, "%s. Welcome, %s\n", resp.Message, resp.User.Username)
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.establish(resp.Token, resp.User)
	fmt.Fprintf(a.out, "Signed in as %s\n", resp.User.Username)
	return nil
}

// establish installs a fresh token and persists the session.
func (a *App) establish(token string, user dto.PublicUser) {
	a.client.SetToken(token)
	a.user = &user
	if err := a.store.Save(session.Session{Token: token, User: user}); err != nil {
		fmt.Fprintf(a.out, "warning: could not save session: %v\n", err)
	}
}

func (a *App) logout() error {
	a.client.SetToken("")
	a.user = nil
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s (id %d, %s)\n", user.Username, user.ID, role)
	return nil
}

// runSurvey launches the wizard unless the user already submitted; the
// survey is one-shot per account.
func (a *App) runSurvey(ctx context.Context) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Sign in first")
		return nil
	}
	has, err := a.client.CheckResponse(ctx)
	if err != nil {
		return err
	}
	if has {
		fmt.Fprintln(a.out, "You have already submitted a response. Use list to see it.")
		return nil
	}

	model, err := a.wizard(func(req dto.SubmitRequest) (models.SurveyResponse, error) {
		return a.client.Submit(ctx, req)
	})
	if err != nil {
		return err
	}
	switch {
	case model.Done:
		fmt.Fprintf(a.out, "Survey submitted successfully. Response id: %s\n", model.Result.ResponseID)
	case model.Aborted:
		fmt.Fprintln(a.out, "Survey cancelled; nothing was submitted.")
	}
	return nil
}

func (a *App) list(ctx context.Context) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Sign in first")
		return nil
	}
	responses, err := a.client.Responses(ctx)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		fmt.Fprintln(a.out, "No responses yet")
		return nil
	}
	for _, r := range responses {
		fmt.Fprintf(a.out, "%s  %-16s %s\n", r.ResponseID, r.Username, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *App) show(ctx context.Context, id string) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Sign in first")
		return nil
	}
	var err error
	if id == "" {
		id, err = promptLine(a.reader, "Response id: ", a.out)
		if err != nil {
			return err
		}
	}
	resp, err := a.client.Response(ctx, id)
	if err != nil {
		return err
	}
	a.printResponse(resp)
	return nil
}

// printResponse renders the sections. The server stores them verbatim, so
// a blob submitted outside this client may not decode into the expected
// shape; such sections are shown as raw JSON.
func (a *App) printResponse(r models.SurveyResponse) {
	fmt.Fprintf(a.out, "Response %s by %s (%s)\n", r.ResponseID, r.Username, r.CreatedAt.Format("2006-01-02 15:04"))

	var demographic models.Demographic
	if json.Unmarshal(r.Demographic, &demographic) == nil {
		fmt.Fprintf(a.out, "  Demographic: %s, age %d, %s, %s\n", demographic.Name, demographic.Age, demographic.Gender, demographic.Location)
	} else {
		fmt.Fprintf(a.out, "  Demographic: %s\n", r.Demographic)
	}

	var health models.Health
	if json.Unmarshal(r.Health, &health) == nil {
		fmt.Fprintf(a.out, "  Health: conditions %s; medications %s\n", strings.Join(health.CurrentConditions, ", "), strings.Join(health.Medications, ", "))
		fmt.Fprintf(a.out, "  Lifestyle: exercise %s, diet %s, smoking %t\n", health.Lifestyle.Exercise, health.Lifestyle.Diet, health.Lifestyle.Smoking)
	} else {
		fmt.Fprintf(a.out, "  Health: %s\n", r.Health)
	}

	var financial models.Financial
	if json.Unmarshal(r.Financial, &financial) == nil {
		fmt.Fprintf(a.out, "  Financial: income %.2f, savings %.2f, insurance %t\n", financial.Income, financial.Savings, financial.Insurance)
	} else {
		fmt.Fprintf(a.out, "  Financial: %s\n", r.Financial)
	}
}
