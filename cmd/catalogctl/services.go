package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type listOutput struct {
	Source   catalog.Source          `json:"source"`
	Services []catalog.ServiceRecord `json:"services"`
}

type recordOutput struct {
	Source  catalog.Source         `json:"source"`
	Service *catalog.ServiceRecord `json:"service"`
}

type updateOutput struct {
	Source catalog.Source `json:"source"`
	catalog.UpdateResult
}

func newServicesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"svc"},
		Short:   "Read and write service records",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			records, source := s.access.List(s.ctx)
			return writeJSON(cmd.OutOrStdout(), listOutput{Source: source, Services: records})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, source := s.access.GetByID(s.ctx, args[0])
			if rec == nil {
				return fmt.Errorf("service %s not found (%s)", args[0], source)
			}
			return writeJSON(cmd.OutOrStdout(), recordOutput{Source: source, Service: rec})
		},
	})

	var createData string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a service; missing fields get their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var payload catalog.CreatePayload
			if err := output.Unmarshal([]byte(createData), &payload); err != nil {
				return fmt.Errorf("--data must be a JSON object: %w", err)
			}

			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, source := s.access.Create(s.ctx, payload)
			return writeJSON(cmd.OutOrStdout(), recordOutput{Source: source, Service: &rec})
		},
	}
	create.Flags().StringVar(&createData, "data", "{}", "Service fields as JSON")
	cmd.AddCommand(create)

	cmd.AddCommand(newUpdateCmd(v, "update <id>", "Update a service, falling back to the local cache", false))
	cmd.AddCommand(newUpdateCmd(v, "admin-update <id>", "Update a service through the admin route only", true))
	return cmd
}

func newUpdateCmd(v *viper.Viper, use, short string, adminOnly bool) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parsePatch(data)
			if err != nil {
				return err
			}

			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			var res catalog.UpdateResult
			if adminOnly {
				res = s.access.AdminUpdate(s.ctx, v.GetString(keyToken), args[0], patch)
			} else {
				res = s.access.Update(s.ctx, args[0], patch)
			}
			if err := writeJSON(cmd.OutOrStdout(), updateOutput{Source: res.Source, UpdateResult: res}); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("update failed: %s", res.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "Fields to change as JSON")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
