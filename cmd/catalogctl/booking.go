package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newBookCmd(v *viper.Viper) *cobra.Command {
	var (
		plan    string
		details catalog.BookingDetails
	)
	cmd := &cobra.Command{
		Use:   "book <service-id>",
		Short: "Simulate checkout for a service; nothing is charged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := catalog.Plan(plan)
			if p != catalog.PlanMonthly && p != catalog.PlanYearly {
				return fmt.Errorf("--plan must be %s or %s", catalog.PlanMonthly, catalog.PlanYearly)
			}

			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			return writeJSON(cmd.OutOrStdout(), s.access.Book(s.ctx, args[0], p, details))
		},
	}
	cmd.Flags().StringVar(&plan, "plan", string(catalog.PlanMonthly), "Monthly or Yearly")
	cmd.Flags().StringVar(&details.Name, "name", "", "Subscriber name")
	cmd.Flags().StringVar(&details.Phone, "phone", "", "Subscriber phone")
	cmd.Flags().StringVar(&details.Address, "address", "", "Delivery address")
	return cmd
}

func newSubscriptionsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions",
		Short: "List the subscriptions booked from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()

			subs := s.access.Subscriptions()
			if subs == nil {
				subs = []catalog.Subscription{}
			}
			return writeJSON(cmd.OutOrStdout(), subs)
		},
	}
}
