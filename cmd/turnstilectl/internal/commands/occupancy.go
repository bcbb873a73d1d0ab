package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/turnstileops/turnstilectl/internal/gateway"
	"github.com/turnstileops/turnstilectl/internal/models"
	"github.com/turnstileops/turnstilectl/internal/occupancy"
)

type OccupancyCmd struct {
	LocationID int64         `arg:"" name:"location-id" help:"Location to derive occupancy for"`
	Watch      bool          `help:"Re-read on an interval until interrupted"`
	Interval   time.Duration `help:"Refresh interval for --watch" default:"5s"`
}

func (o *OccupancyCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/locale/%d", o.LocationID)

	if !o.Watch {
		return a.render(ctx, path, func(viewCtx context.Context) error {
			return o.show(viewCtx, a)
		})
	}

	fmt.Println("Watching occupancy (press Ctrl+C to stop)...")
	fmt.Println()

	if err := a.render(ctx, path, func(viewCtx context.Context) error {
		return o.show(viewCtx, a)
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fmt.Print("\033[2J\033[H") // Clear screen and move cursor to top
			fmt.Printf("Occupancy (updated at %s)\n\n", time.Now().Format("15:04:05"))

			err := a.render(ctx, path, func(viewCtx context.Context) error {
				return o.show(viewCtx, a)
			})
			if err != nil {
				// A dead session ends the watch; everything else is shown
				// and retried on the next tick.
				if gateway.IsKind(err, gateway.KindSessionExpired) || gateway.IsKind(err, gateway.KindUnauthenticated) {
					return err
				}
				fmt.Printf("Error updating occupancy: %v\n", err)
			}
		}
	}
}

// show fetches the location and its history and prints the derived report.
// The recomputed count wins whenever history is available; the stored
// snapshot is shown only when it is not.
func (o *OccupancyCmd) show(ctx context.Context, a *app) error {
	location, err := a.client.GetLocation(ctx, o.LocationID)
	if err != nil {
		return err
	}

	events, err := a.client.LocationHistory(ctx, o.LocationID)
	if err != nil {
		if gateway.IsKind(err, gateway.KindSessionExpired) || gateway.IsKind(err, gateway.KindUnauthenticated) {
			return err
		}
		log.Warn().Err(err).Int64("location", o.LocationID).Msg("movement history unavailable, falling back to snapshot")
		events = nil
	}

	report, err := occupancy.Derive(*location, events)
	if err != nil {
		// Data-integrity problem: degrade to the raw snapshot instead of
		// crashing the view.
		log.Error().Err(err).Int64("location", o.LocationID).Msg("cannot derive occupancy")
		fmt.Printf("%s (%s)\n", location.Name, location.Address)
		fmt.Printf("  %d people inside; declared capacity %d is invalid\n", location.CurrentPeople, location.MaxPeople)
		return nil
	}

	printReport(location, report, len(events))
	return nil
}

const barWidth = 24

func printReport(loc *models.Location, report occupancy.Report, eventCount int) {
	fmt.Printf("%s (%s)\n", loc.Name, loc.Address)
	fmt.Printf("  Occupancy: %d/%d  %s %3.0f%%  pressure: %s\n",
		report.Current,
		report.Capacity,
		bar(report.Ratio),
		report.Ratio*100,
		report.Pressure)
	fmt.Printf("  Slots remaining: %d\n", report.Remaining())

	if report.OverCapacity() {
		fmt.Printf("  OVER CAPACITY by %d\n", report.Current-report.Capacity)
	}

	switch report.Source {
	case occupancy.SourceDerived:
		fmt.Printf("  Derived from %d movement events\n", eventCount)
	case occupancy.SourceSnapshot:
		fmt.Println("  No movement history available; showing gateway snapshot")
	}
}

func bar(ratio float64) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}
