package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnstileops/turnstilectl/internal/gateway"
	"github.com/turnstileops/turnstilectl/internal/models"
	"github.com/turnstileops/turnstilectl/internal/routing"
)

type LocationsCmd struct {
	List   LocationsListCmd   `cmd:"" help:"List registered locations"`
	Get    LocationsGetCmd    `cmd:"" help:"Show one location"`
	Create LocationsCreateCmd `cmd:"" help:"Register a location"`
	Update LocationsUpdateCmd `cmd:"" help:"Update a location"`
	Delete LocationsDeleteCmd `cmd:"" help:"Delete a location"`
}

type LocationsListCmd struct{}

func (l *LocationsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, routing.HomePath, func(viewCtx context.Context) error {
		locations, err := a.client.ListLocations(viewCtx)
		if err != nil {
			return err
		}
		printLocations(locations)
		return nil
	})
}

type LocationsGetCmd struct {
	ID int64 `arg:"" help:"Location id"`
}

func (l *LocationsGetCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/locale/%d", l.ID), func(viewCtx context.Context) error {
		location, err := a.client.GetLocation(viewCtx, l.ID)
		if err != nil {
			return err
		}
		printLocationDetails(location)
		return nil
	})
}

type LocationsCreateCmd struct {
	Name        string `arg:"" help:"Location name"`
	Address     string `required:"" help:"Street address"`
	Capacity    int    `required:"" help:"Maximum number of people"`
	Description string `help:"Optional description"`
	MapsURL     string `help:"Optional Google Maps URL"`
}

func (l *LocationsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, "/locale/create", func(viewCtx context.Context) error {
		location, err := a.client.CreateLocation(viewCtx, gateway.LocationParams{
			Name:          l.Name,
			Address:       l.Address,
			MaxPeople:     l.Capacity,
			Description:   l.Description,
			GoogleMapsURL: l.MapsURL,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Location %q registered with id %d\n", location.Name, location.ID)
		return nil
	})
}

type LocationsUpdateCmd struct {
	ID          int64  `arg:"" help:"Location id"`
	Name        string `required:"" help:"Location name"`
	Address     string `required:"" help:"Street address"`
	Capacity    int    `required:"" help:"Maximum number of people"`
	Description string `help:"Optional description"`
	MapsURL     string `help:"Optional Google Maps URL"`
}

func (l *LocationsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/locale/edit/%d", l.ID), func(viewCtx context.Context) error {
		location, err := a.client.UpdateLocation(viewCtx, l.ID, gateway.LocationParams{
			Name:          l.Name,
			Address:       l.Address,
			MaxPeople:     l.Capacity,
			Description:   l.Description,
			GoogleMapsURL: l.MapsURL,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Location %d updated\n", location.ID)
		return nil
	})
}

type LocationsDeleteCmd struct {
	ID int64 `arg:"" help:"Location id"`
}

func (l *LocationsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/locale/%d", l.ID), func(viewCtx context.Context) error {
		if err := a.client.DeleteLocation(viewCtx, l.ID); err != nil {
			return err
		}
		fmt.Printf("Location %d deleted\n", l.ID)
		return nil
	})
}

func printLocations(locations []models.Location) {
	if len(locations) == 0 {
		fmt.Println("No locations registered.")
		return
	}

	fmt.Printf("%-6s %-25s %-30s %-10s %-10s %-20s\n",
		"ID", "Name", "Address", "Capacity", "Current", "Created At")
	fmt.Println(strings.Repeat("─", 105))

	for _, loc := range locations {
		fmt.Printf("%-6d %-25s %-30s %-10d %-10d %-20s\n",
			loc.ID,
			truncate(loc.Name, 25),
			truncate(loc.Address, 30),
			loc.MaxPeople,
			loc.CurrentPeople,
			formatTime(loc.CreatedAt))
	}

	fmt.Printf("\nTotal locations: %d\n", len(locations))
}

func printLocationDetails(loc *models.Location) {
	fmt.Printf("Location %d\n", loc.ID)
	fmt.Printf("  Name:     %s\n", loc.Name)
	fmt.Printf("  Address:  %s\n", loc.Address)
	fmt.Printf("  Capacity: %d (currently %d)\n", loc.MaxPeople, loc.CurrentPeople)
	if loc.Description != "" {
		fmt.Printf("  Notes:    %s\n", loc.Description)
	}
	if loc.GoogleMapsURL != "" {
		fmt.Printf("  Map:      %s\n", loc.GoogleMapsURL)
	}
	fmt.Printf("  Created:  %s\n", formatTime(loc.CreatedAt))
	fmt.Printf("  Updated:  %s\n", formatTime(loc.UpdatedAt))
}
