package main

import (
	"context"
	"fmt"

	"github.com/banshee-data/pointmesh/internal/service"
	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <points.json|->",
	Short: "Reconstruct a point cloud locally and print the mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		points, err := readPoints(args[0])
		if err != nil {
			return err
		}

		h := service.NewHandler(pipeline.NewReconstructor(cfg.ToParams()), nil)
		resp := h.HandleRequest(context.Background(), &meshpb.TriangulateRequest{Points: points})
		if err := writeMesh(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("reconstruction failed: %s", resp.Error)
		}
		return nil
	},
}
