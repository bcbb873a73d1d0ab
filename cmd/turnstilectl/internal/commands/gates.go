package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnstileops/turnstilectl/internal/gateway"
	"github.com/turnstileops/turnstilectl/internal/models"
)

type GatesCmd struct {
	List   GatesListCmd   `cmd:"" help:"List the gates attached to a location"`
	Get    GatesGetCmd    `cmd:"" help:"Show one gate"`
	Create GatesCreateCmd `cmd:"" help:"Register a gate"`
	Update GatesUpdateCmd `cmd:"" help:"Update a gate"`
	Delete GatesDeleteCmd `cmd:"" help:"Delete a gate"`
}

type GatesListCmd struct {
	LocationID int64 `arg:"" name:"location-id" help:"Location to list gates for"`
}

func (g *GatesListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/locale/gates/%d", g.LocationID), func(viewCtx context.Context) error {
		gates, err := a.client.ListGates(viewCtx, g.LocationID)
		if err != nil {
			return err
		}
		printGates(gates)
		return nil
	})
}

type GatesGetCmd struct {
	ID int64 `arg:"" help:"Gate id"`
}

func (g *GatesGetCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/gate/%d", g.ID), func(viewCtx context.Context) error {
		gate, err := a.client.GetGate(viewCtx, g.ID)
		if err != nil {
			return err
		}
		printGateDetails(gate)
		return nil
	})
}

type GatesCreateCmd struct {
	Tag        string `arg:"" help:"Gate tag, unique per location"`
	LocationID int64  `required:"" name:"location-id" help:"Location the gate belongs to"`
	Disabled   bool   `help:"Register the gate as disabled"`
}

func (g *GatesCreateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	status := models.GateStatusEnabled
	if g.Disabled {
		status = models.GateStatusDisabled
	}

	return a.render(ctx, "/gate/create", func(viewCtx context.Context) error {
		gate, err := a.client.CreateGate(viewCtx, gateway.GateParams{
			Tag:        g.Tag,
			Status:     status,
			LocationID: g.LocationID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Gate %q registered with id %d\n", gate.Tag, gate.ID)
		return nil
	})
}

type GatesUpdateCmd struct {
	ID         int64  `arg:"" help:"Gate id"`
	Tag        string `required:"" help:"Gate tag, unique per location"`
	LocationID int64  `required:"" name:"location-id" help:"Location the gate belongs to"`
	Disabled   bool   `help:"Disable the gate"`
}

func (g *GatesUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	status := models.GateStatusEnabled
	if g.Disabled {
		status = models.GateStatusDisabled
	}

	return a.render(ctx, fmt.Sprintf("/gate/edit/%d", g.ID), func(viewCtx context.Context) error {
		gate, err := a.client.UpdateGate(viewCtx, g.ID, gateway.GateParams{
			Tag:        g.Tag,
			Status:     status,
			LocationID: g.LocationID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Gate %d updated\n", gate.ID)
		return nil
	})
}

type GatesDeleteCmd struct {
	ID int64 `arg:"" help:"Gate id"`
}

func (g *GatesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	return a.render(ctx, fmt.Sprintf("/gate/%d", g.ID), func(viewCtx context.Context) error {
		if err := a.client.DeleteGate(viewCtx, g.ID); err != nil {
			return err
		}
		fmt.Printf("Gate %d deleted\n", g.ID)
		return nil
	})
}

func printGates(gates []models.Gate) {
	if len(gates) == 0 {
		fmt.Println("No gates registered for this location.")
		return
	}

	fmt.Printf("%-6s %-20s %-10s %-12s %-20s\n",
		"ID", "Tag", "Status", "Location", "Created At")
	fmt.Println(strings.Repeat("─", 72))

	for _, gate := range gates {
		fmt.Printf("%-6d %-20s %-10s %-12d %-20s\n",
			gate.ID,
			truncate(gate.Tag, 20),
			gate.Status,
			gate.LocationID,
			formatTime(gate.CreatedAt))
	}

	fmt.Printf("\nTotal gates: %d\n", len(gates))
}

func printGateDetails(gate *models.Gate) {
	fmt.Printf("Gate %d\n", gate.ID)
	fmt.Printf("  Tag:      %s\n", gate.Tag)
	fmt.Printf("  Status:   %s\n", gate.Status)
	fmt.Printf("  Location: %d\n", gate.LocationID)
	fmt.Printf("  Created:  %s\n", formatTime(gate.CreatedAt))
	fmt.Printf("  Updated:  %s\n", formatTime(gate.UpdatedAt))
}
