package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/export"
)

func newAddCmd() *cobra.Command {
	var (
		raw      domain.RawInput
		lat, lng float64
		format   outputFormat
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a workout at a map position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := domain.ParseInput(raw, domain.Coordinates{Latitude: lat, Longitude: lng})
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			w, err := s.service.Create(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, []domain.Workout{w})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&raw.Type, "type", "running", "Workout type (running|cycling)")
	flags.Float64Var(&lat, "lat", 0, "Latitude of the clicked position")
	flags.Float64Var(&lng, "lng", 0, "Longitude of the clicked position")
	addMeasurementFlags(cmd, &raw)
	addOutputFlag(flags, &format)
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func addMeasurementFlags(cmd *cobra.Command, raw *domain.RawInput) {
	flags := cmd.Flags()
	flags.StringVar(&raw.Distance, "distance", "", "Distance in km")
	flags.StringVar(&raw.Duration, "duration", "", "Duration in minutes")
	flags.StringVar(&raw.Cadence, "cadence", "", "Cadence in steps/min (running)")
	flags.StringVar(&raw.ElevationGain, "elevation-gain", "", "Elevation gain in m (cycling)")
}

func newListCmd() *cobra.Command {
	var format outputFormat
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return render(cmd.OutOrStdout(), format, s.service.List())
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	return cmd
}

func newShowCmd() *cobra.Command {
	var format outputFormat
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			w, ok := s.service.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
			}
			return render(cmd.OutOrStdout(), format, []domain.Workout{w})
		},
	}
	addOutputFlag(cmd.Flags(), &format)
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		raw    domain.RawInput
		format outputFormat
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the distance, duration and cadence or elevation gain of a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			current, ok := s.service.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
			}
			m, err := domain.ParseMeasurements(current.Type, raw)
			if err != nil {
				return err
			}
			w, err := s.service.Edit(cmdContext(cmd), args[0], m)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, []domain.Workout{w})
		},
	}
	addMeasurementFlags(cmd, &raw)
	addOutputFlag(cmd.Flags(), &format)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			removed, err := s.service.Delete(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no workout %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.service.DeleteAll(cmdContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted all workouts")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the stored workouts blob entirely",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.gateway.Reset(cmdContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "storage reset")
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workouts as GPX waypoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			data, err := export.GPX(s.service.List())
			if err != nil {
				return err
			}
			if file == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(file, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")
	return cmd
}
