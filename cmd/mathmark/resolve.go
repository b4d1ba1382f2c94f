package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"mathmark/internal/registry"
	"mathmark/internal/resolver"
	"mathmark/internal/structural"

	"github.com/spf13/cobra"
)

var (
	registryPath string
	snapshotPath string
	canvasWidth  float64
	canvasHeight float64
	traceTiers   bool
)

func init() {
	for _, c := range []*cobra.Command{resolveCmd, regionsCmd} {
		c.Flags().StringVarP(&registryPath, "registry", "r", "", "JSON file of registered elements")
		c.Flags().Float64Var(&canvasWidth, "width", 0, "Canvas width; overrides canvas.width")
		c.Flags().Float64Var(&canvasHeight, "height", 0, "Canvas height; overrides canvas.height")
		_ = c.MarkFlagRequired("registry")
	}
	resolveCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Canvas image (png, jpeg, gif, webp, bmp) for the oracle tier")
	resolveCmd.Flags().BoolVar(&traceTiers, "trace", false, "Print every tier that ran")
}

// buildResolver loads the registry file and applies canvas flag overrides.
func buildResolver(ctx context.Context, a *app) *resolver.Resolver {
	elems, err := loadElements(registryPath)
	if err != nil {
		log.Fatalf("Failed to load registry: %v", err)
	}
	reg := registry.New()
	if err := reg.RegisterMany(elems); err != nil {
		log.Fatalf("Failed to register elements: %v", err)
	}

	r := resolver.New(reg, a.resolverOptions(ctx)...)
	canvas := r.Canvas()
	if canvasWidth > 0 {
		canvas.Width = canvasWidth
	}
	if canvasHeight > 0 {
		canvas.Height = canvasHeight
	}
	r.UpdateCanvasDimensions(canvas.Width, canvas.Height)
	return r
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [phrase]",
	Short: "Resolve a phrase against a registry file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		phrase := strings.Join(args, " ")

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		r := buildResolver(ctx, a)
		b64, err := loadSnapshot(snapshotPath)
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		if err := r.SetCanvasSnapshot(b64); err != nil {
			log.Fatalf("Failed to set snapshot: %v", err)
		}

		if traceTiers {
			for _, s := range r.Trace(ctx, phrase) {
				status := "miss"
				if s.Hit {
					status = "hit"
				}
				fmt.Printf("%-10s %-4s %8v %s\n", s.Tier, status, s.Elapsed, s.Detail)
			}
		}

		ann, ok := r.Resolve(ctx, phrase)
		if !ok {
			fmt.Printf("❌ No target found for %q\n", phrase)
			return
		}
		printJSON(ann)
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Show the structural layout computed for a registry file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		r := buildResolver(ctx, a)
		layout := structural.NewMatcher(a.cfg.Structural).Analyze(r.Registry().Snapshot(), r.Canvas())

		fmt.Printf("📐 Canvas %.0fx%.0f, %d elements, split by %s at x=%.1f\n",
			layout.Canvas.Width, layout.Canvas.Height, layout.Elements, layout.Split.Source, layout.Split.X())
		if pb, ok := r.Registry().ProblemBounds(); ok {
			fmt.Printf("  %-12s x=%.1f..%.1f y=%.1f..%.1f\n", "problem", pb.MinX, pb.MaxX, pb.MinY, pb.MaxY)
		}
		for _, region := range structural.Regions() {
			b, ok := layout.Bounds(region)
			if !ok {
				fmt.Printf("  %-12s -\n", region)
				continue
			}
			fmt.Printf("  %-12s x=%.1f y=%.1f w=%.1f h=%.1f\n", region, b.X, b.Y, b.Width, b.Height)
		}
	},
}
