package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

func createAdminCmd(rt func() *runtime) *cobra.Command {
	var in service.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = domain.RoleAdmin
			user, err := rt().auth.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&in.Password, "password", "", "admin password, at least 6 characters")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func propertiesCmd(rt func() *runtime) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Moderate property listings",
	}
	cmd.PersistentFlags().StringVar(&actor, "as", "", "email of the admin performing the action")

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List listings awaiting approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := adminSession(cmd.Context(), rt(), actor)
			if err != nil {
				return err
			}
			items, err := rt().properties.ListPending(cmd.Context(), sess)
			if err != nil {
				return err
			}
			printProperties(cmd.OutOrStdout(), items)
			return nil
		},
	}

	approve := &cobra.Command{
		Use:   "approve <property-id>",
		Short: "Approve a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := adminSession(cmd.Context(), rt(), actor)
			if err != nil {
				return err
			}
			p, err := rt().properties.Approve(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.Name, p.Status)
			return nil
		},
	}

	var reason string
	reject := &cobra.Command{
		Use:   "reject <property-id>",
		Short: "Reject a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := adminSession(cmd.Context(), rt(), actor)
			if err != nil {
				return err
			}
			p, err := rt().properties.Reject(cmd.Context(), sess, args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.Name, p.Status)
			return nil
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "reason shown to the landlord")

	cmd.AddCommand(pending, approve, reject)
	return cmd
}

func ensureIndexesCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create missing database indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ensure := rt().ensureIndexes
			if ensure == nil {
				return errors.New("the configured store has no indexes to create")
			}
			if err := ensure(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		},
	}
}
