package main

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/pointmesh/internal/service"
	"github.com/spf13/cobra"
)

var (
	callAddr    string
	callTimeout time.Duration
)

var callCmd = &cobra.Command{
	Use:   "call <points.json|->",
	Short: "Send a point cloud to a running service and print the mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := readPoints(args[0])
		if err != nil {
			return err
		}

		client, err := service.NewClient(callAddr)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
		defer cancel()
		resp, err := client.Triangulate(ctx, points)
		if err != nil {
			return fmt.Errorf("triangulate failed: %w", err)
		}
		if err := writeMesh(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("reconstruction failed: %s", resp.Error)
		}
		return nil
	},
}

func init() {
	callCmd.Flags().StringVar(&callAddr, "addr", service.DefaultConfig().ListenAddr, "Service address")
	callCmd.Flags().DurationVar(&callTimeout, "timeout", time.Minute, "Call timeout")
}
