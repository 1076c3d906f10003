package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/punch/pkg/damage"
	urfave "github.com/urfave/cli/v3"
)

const (
	speedFlagName    = "speed"
	strengthFlagName = "strength"
	youXFlagName     = "you-x"
	youYFlagName     = "you-y"
	oppXFlagName     = "opp-x"
	oppYFlagName     = "opp-y"
	guardingFlagName = "guarding"
	explainFlagName  = "explain"
)

func newCalcCmd() *urfave.Command {
	return &urfave.Command{
		Name:    "calc",
		Aliases: []string{"c"},
		Usage:   "Calculate the damage of a single punch",
		UsageText: `punch calc --speed 50 --strength 50 --you-x 0 --you-y 0 --opp-x 5 --opp-y 0              # open opponent
   punch calc --speed 20 --strength 5 --you-x 0 --you-y 0 --opp-x 12 --opp-y 0 -g --explain  # guarding, with breakdown`,
		Action: cmdCalc,
		Flags: []urfave.Flag{
			requiredFloat(speedFlagName, "Punch speed [0-100]"),
			requiredFloat(strengthFlagName, "Punch strength [0-100]"),
			requiredFloat(youXFlagName, "Your X position [0-20]"),
			requiredFloat(youYFlagName, "Your Y position [0-20]"),
			requiredFloat(oppXFlagName, "Opponent X position [0-20]"),
			requiredFloat(oppYFlagName, "Opponent Y position [0-20]"),
			&urfave.BoolFlag{
				Name:    guardingFlagName,
				Aliases: []string{"g"},
				Usage:   "Opponent is guarding",
			},
			&urfave.BoolFlag{
				Name:  explainFlagName,
				Usage: "Print the distance and multipliers behind the damage",
			},
		},
	}
}

func requiredFloat(name, usage string) *urfave.FloatFlag {
	return &urfave.FloatFlag{
		Name:     name,
		Usage:    usage,
		Required: true,
	}
}

func cmdCalc(ctx context.Context, cmd *urfave.Command) error {
	format, err := outputFormat(ctx, cmd)
	if err != nil {
		return err
	}

	s := damage.Strike{
		Punch: damage.Punch{
			Speed:    cmd.Float(speedFlagName),
			Strength: cmd.Float(strengthFlagName),
		},
		You: damage.Position{
			X: cmd.Float(youXFlagName),
			Y: cmd.Float(youYFlagName),
		},
		Opponent: damage.Position{
			X: cmd.Float(oppXFlagName),
			Y: cmd.Float(oppYFlagName),
		},
		Guarding: cmd.Bool(guardingFlagName),
	}

	out := &calcOutput{Valid: true}
	res, calcErr := damage.Calculate(s)
	if calcErr != nil {
		slog.Debug("invalid strike", "error", calcErr)
		out.Damage = damage.InvalidInput
		out.Valid = false
		out.Error = calcErr.Error()
	} else {
		out.Damage = res.Damage
		if cmd.Bool(explainFlagName) {
			out.Detail = res
		}
	}

	if err := encode(cmd.Root().Writer, format, out, out.writeText); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	if calcErr != nil {
		return fmt.Errorf("calculating damage: %w", calcErr)
	}
	return nil
}
