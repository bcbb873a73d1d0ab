package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnstileops/turnstilectl/internal/models"
	"github.com/turnstileops/turnstilectl/internal/occupancy"
)

type HistoryCmd struct {
	LocationID int64 `arg:"" name:"location-id" help:"Location whose movement history to show"`
	Gate       int64 `help:"Limit history to a single gate id"`
}

func (h *HistoryCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/locale/%d", h.LocationID)
	if h.Gate != 0 {
		path = fmt.Sprintf("/gate/%d", h.Gate)
	}

	return a.render(ctx, path, func(viewCtx context.Context) error {
		var events []models.MovementEvent
		var err error
		if h.Gate != 0 {
			events, err = a.client.GateHistory(viewCtx, h.Gate)
		} else {
			events, err = a.client.LocationHistory(viewCtx, h.LocationID)
		}
		if err != nil {
			return err
		}

		printHistory(events)
		return nil
	})
}

func printHistory(events []models.MovementEvent) {
	if len(events) == 0 {
		fmt.Println("No movement events recorded.")
		return
	}

	occupancy.Sort(events)

	fmt.Printf("%-8s %-8s %-10s %-20s\n", "ID", "Gate", "Movement", "Recorded At")
	fmt.Println(strings.Repeat("─", 50))

	for _, ev := range events {
		fmt.Printf("%-8d %-8d %-10s %-20s\n",
			ev.ID,
			ev.GateID,
			ev.Operation,
			formatTime(ev.CreatedAt))
	}

	fmt.Printf("\nTotal events: %d\n", len(events))
}
