package main

import (
	"context"
	"fmt"

	"calculus/internal/api/handler/v1handler"
	"calculus/internal/calculator"
	"calculus/internal/config"
	"calculus/pkg/engine"
	"calculus/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// evalCommand constructs the 'eval' subcommand that computes one quantity
// without a database and prints it as JSON.
func evalCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Computes a quantity of an expression over an interval",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			quantity, _ := cmd.Flags().GetString("quantity")
			lower, _ := cmd.Flags().GetFloat64("lower")
			upper, _ := cmd.Flags().GetFloat64("upper")
			axis, _ := cmd.Flags().GetString("axis")

			q, err := engine.ParseQuantity(quantity)
			if err != nil {
				logger.Fatal(ctx, "invalid quantity", zap.Error(err))
			}
			req := engine.Request{
				Expression: args[0],
				Interval:   engine.Interval{Lower: lower, Upper: upper},
			}
			if q.UsesAxis() {
				if req.Axis, err = engine.ParseAxis(axis); err != nil {
					logger.Fatal(ctx, "invalid axis", zap.Error(err))
				}
			}

			res, err := calculator.New(nil, calculator.NewOptions(cfg)).Compute(ctx, q, req)
			if err != nil {
				logger.Fatal(ctx, "could not compute", zap.Error(err))
			}

			fmt.Println(string(v1handler.MarshalQuantity(res))) //nolint: forbidigo
		},
	}

	cmd.Flags().String("quantity", string(engine.QuantityIntegral),
		"integral, area, averageValue, arcLength, surfaceArea or volume")
	cmd.Flags().Float64("lower", 0, "Lower bound")
	cmd.Flags().Float64("upper", 1, "Upper bound")
	cmd.Flags().String("axis", string(engine.AxisX), "Axis of revolution for surfaceArea and volume")

	return cmd
}
