package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/spf13/pflag"
)

// addActorFlag registers the shared --actor flag. The flag overrides the
// PLANTRACK_ACTOR environment variable.
func addActorFlag(flags *pflag.FlagSet, actor *string) {
	flags.StringVar(actor, "actor", "", "Acting user (ID or name; defaults to $PLANTRACK_ACTOR)")
}

// resolveActor turns the --actor flag or PLANTRACK_ACTOR into a Principal by
// matching a user ID, then a name (case-insensitive). With no value at all the
// system principal is used.
func resolveActor(ctx context.Context, app *App, input string) (domain.Principal, error) {
	if input == "" {
		input = os.Getenv("PLANTRACK_ACTOR")
	}
	if input == "" {
		return domain.SystemPrincipal, nil
	}

	users, err := app.Users.List(ctx, false)
	if err != nil {
		return domain.Principal{}, err
	}
	for _, u := range users {
		if u.ID == input {
			return domain.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, input) {
			return domain.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
		}
	}
	return domain.Principal{}, fmt.Errorf("actor not found: %q", input)
}

// resolveID matches input against the given IDs: exact match first, then a
// unique prefix.
func resolveID(ids []string, input, what string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", what)
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", what, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", what, input, len(matches))
	}
}

func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	plans, err := app.Plans.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	return resolveID(ids, input, "plan")
}

func resolveUserID(ctx context.Context, app *App, input string) (string, error) {
	users, err := app.Users.List(ctx, false)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, input) {
			return u.ID, nil
		}
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return resolveID(ids, input, "user")
}
