package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/wisdomfoli/clockin-status-board/api"
	"github.com/wisdomfoli/clockin-status-board/config"
	"github.com/wisdomfoli/clockin-status-board/session"
	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

// Setup wires the config, session store, API client and coordinator for
// one command invocation.
type Setup struct {
	Config *config.Config
	Store  *session.Store
	Client *api.Client
	Sess   session.Session
}

// NewSetup loads config and session and builds the API client.
func NewSetup() (*Setup, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store := session.NewStore("")
	sess, err := store.Load()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second, store)
	return &Setup{Config: cfg, Store: store, Client: client, Sess: sess}, nil
}

// Coordinator builds the clock action coordinator for the logged-in user.
func (s *Setup) Coordinator() *timeclock.Coordinator {
	return timeclock.NewCoordinator(s.Client, s.Sess.UserID)
}

// CommandLogin authenticates against the server and stores the session.
func CommandLogin(username, password string) error {
	if username == "" {
		return fmt.Errorf("login requires a username")
	}
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	setup, err := NewSetup()
	if err != nil {
		return err
	}

	sess, err := setup.Client.Login(context.Background(), username, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", sess.Username)
	return nil
}

// CommandLogout destroys the stored session.
func CommandLogout() error {
	setup, err := NewSetup()
	if err != nil {
		return err
	}
	if err := setup.Store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// CommandStatus prints today's board once, with static elapsed values.
func CommandStatus() error {
	setup, err := NewSetup()
	if err != nil {
		return err
	}

	board, err := setup.Coordinator().Refresh(context.Background())
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return fmt.Errorf("not logged in. Run: clockspot login <username>")
		}
		return err
	}

	if len(board) == 0 {
		fmt.Println("Nobody on the board today.")
		return nil
	}

	now := time.Now()
	fmt.Printf("%d of %d clocked in\n\n", timeclock.ClockedInCount(board), len(board))
	for _, user := range board {
		state := "off the clock"
		if user.IsClockedIn {
			state = "on the clock"
		}
		marker := " "
		if user.ID == setup.Sess.UserID {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s\n", marker, user.DisplayName(), state)

		for _, entry := range user.TimeEntries {
			fmt.Printf("    %s  (%s)\n",
				timeclock.FormatSession(entry, now.Location()),
				timeclock.FormatElapsed(entry.Elapsed(now)))
		}
	}
	return nil
}

// CommandClock toggles the logged-in user's clock state in the requested
// direction ("in" or "out").
func CommandClock(direction string) error {
	setup, err := NewSetup()
	if err != nil {
		return err
	}
	if !setup.Sess.Authenticated() {
		return fmt.Errorf("not logged in. Run: clockspot login <username>")
	}

	ctx := context.Background()
	coord := setup.Coordinator()

	board, err := coord.Refresh(ctx)
	if err != nil {
		return err
	}

	idx := timeclock.FindUser(board, setup.Sess.UserID)
	if idx != -1 {
		// Already in the requested state: nothing to toggle.
		if direction == "in" && board[idx].IsClockedIn {
			return fmt.Errorf("already clocked in")
		}
		if direction == "out" && !board[idx].IsClockedIn {
			return fmt.Errorf("not clocked in")
		}
	} else if direction == "out" {
		return fmt.Errorf("not clocked in")
	} else {
		// Not on the board yet: a first clock-in of the day.
		board = append(board, timeclock.User{
			ID:        setup.Sess.UserID,
			Username:  setup.Sess.Username,
			FirstName: setup.Sess.Username,
		})
	}

	res := coord.Toggle(ctx, board, setup.Sess.UserID)
	switch res.Outcome {
	case timeclock.OutcomeClockedIn, timeclock.OutcomeClockedOut:
		fmt.Printf("%s at %s\n", res.Message, res.At.Local().Format("15:04"))
	case timeclock.OutcomeAlreadyOpen:
		fmt.Println(res.Message)
	default:
		return fmt.Errorf("%s", res.Message)
	}
	if res.SyncErr != nil {
		fmt.Printf("Warning: board refresh failed: %v\n", res.SyncErr)
	}
	return nil
}

// CommandUsers prints the user directory.
func CommandUsers() error {
	setup, err := NewSetup()
	if err != nil {
		return err
	}

	users, err := setup.Client.Users(context.Background())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users.")
		return nil
	}
	fmt.Printf("%d users\n\n", len(users))
	for _, user := range users {
		fmt.Printf("  %-24s %s\n", user.DisplayName(), user.Email)
	}
	return nil
}

// RunCLI parses command-line arguments and executes the appropriate command.
func RunCLI(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified")
	}

	command := args[0]
	remaining := args[1:]

	switch command {
	case "login":
		var username, password string
		for i := 0; i < len(remaining); i++ {
			if remaining[i] == "--password" {
				if i+1 >= len(remaining) {
					return fmt.Errorf("--password requires a value")
				}
				password = remaining[i+1]
				i++
			} else if strings.HasPrefix(remaining[i], "--") {
				return fmt.Errorf("unknown flag: %s", remaining[i])
			} else {
				username = remaining[i]
			}
		}
		return CommandLogin(username, password)

	case "logout":
		return CommandLogout()

	case "status":
		return CommandStatus()

	case "in":
		return CommandClock("in")

	case "out":
		return CommandClock("out")

	case "users":
		return CommandUsers()

	case "board":
		return fmt.Errorf("board should be launched from main")

	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
