package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/service"
	"github.com/charmbracelet/huh"
)

// runCascadeCancel previews the cascade, asks for confirmation on an
// interactive terminal, then runs the cancellation and prints the summary.
func runCascadeCancel(ctx context.Context, app *App, principal domain.Principal, rootID string, kind service.RootKind, skipConfirm bool) error {
	preview, err := app.Cascade.Preview(ctx, rootID, kind)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", formatter.FormatCascadePreview(preview))
	if preview.IsAlreadyCancelled {
		return nil
	}

	if !skipConfirm && app.IsInteractive != nil && app.IsInteractive() {
		confirmed, err := confirmCancel(preview)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	summary, err := app.Cascade.Cancel(ctx, principal, rootID, kind)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", formatter.FormatCascadeSummary(summary))
	return nil
}

func confirmCancel(preview *service.CascadePreview) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Cancel %q and %d milestones / %d initiatives?",
					preview.RootTitle, preview.MilestonesCount, preview.InitiativesCount)).
				Affirmative("Cancel them").
				Negative("Keep").
				Value(&confirmed),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
