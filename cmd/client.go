package main

import (
	"encoding/json"
	"fmt"

	"github.com/ochronus/xfrtuc/internal/app"
	"github.com/ochronus/xfrtuc/internal/config"
	"github.com/ochronus/xfrtuc/pkg/transferatu"
	"github.com/spf13/cobra"
)

// loadClient builds a transferatu client from the [client] config section.
func loadClient(configPath string) (*transferatu.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateClient(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	return transferatu.NewClient(cfg.Client.Username, cfg.Client.Password,
		transferatu.WithBaseURL(cfg.Client.URL),
		transferatu.WithRetries(cfg.Client.MaxRetries),
		transferatu.WithLogger(app.NewLogger(cfg.Loglevel)),
	), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newGroupsCmd(configPath *string) *cobra.Command {
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage transferatu groups",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups, deleted ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient(*configPath)
			if err != nil {
				return err
			}
			groups, err := client.Groups().List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, groups)
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info NAME",
		Short: "Show a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient(*configPath)
			if err != nil {
				return err
			}
			group, err := client.Groups().Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, group)
		},
	}

	var logInputURL string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a group, or revive a deleted one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient(*configPath)
			if err != nil {
				return err
			}
			var url *string
			if cmd.Flags().Changed("log-input-url") {
				url = &logInputURL
			}
			group, err := client.Groups().Create(cmd.Context(), args[0], url)
			if err != nil {
				return err
			}
			return printJSON(cmd, group)
		},
	}
	createCmd.Flags().StringVar(&logInputURL, "log-input-url", "", "Log drain URL for the group")

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Soft-delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loadClient(*configPath)
			if err != nil {
				return err
			}
			group, err := client.Groups().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, group)
		},
	}

	groupsCmd.AddCommand(listCmd, infoCmd, createCmd, deleteCmd)
	return groupsCmd
}

func newTransfersCmd(configPath *string) *cobra.Command {
	var group string
	transfersCmd := &cobra.Command{
		Use:   "transfers",
		Short: "Manage the transfers of a group",
	}
	transfersCmd.PersistentFlags().StringVarP(&group, "group", "g", "", "Group owning the transfers")
	_ = transfersCmd.MarkPersistentFlagRequired("group")

	endpoint := func() (*transferatu.TransferClient, error) {
		client, err := loadClient(*configPath)
		if err != nil {
			return nil, err
		}
		return client.Group(group).Transfers(), nil
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transfers in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := endpoint()
			if err != nil {
				return err
			}
			list, err := transfers.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}

	var verbose bool
	infoCmd := &cobra.Command{
		Use:   "info ID",
		Short: "Show a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := endpoint()
			if err != nil {
				return err
			}
			xfer, err := transfers.Info(cmd.Context(), args[0], verbose)
			if err != nil {
				return err
			}
			return printJSON(cmd, xfer)
		},
	}
	infoCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include transfer logs")

	var req transferatu.TransferRequest
	var fromName, toName string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Start a transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := endpoint()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("from-name") {
				req.FromName = &fromName
			}
			if cmd.Flags().Changed("to-name") {
				req.ToName = &toName
			}
			xfer, err := transfers.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, xfer)
		},
	}
	createCmd.Flags().StringVar(&req.FromType, "from-type", "", "Source type, e.g. pg_dump")
	createCmd.Flags().StringVar(&req.FromURL, "from-url", "", "Source URL")
	createCmd.Flags().StringVar(&fromName, "from-name", "", "Source name")
	createCmd.Flags().StringVar(&req.ToType, "to-type", "", "Target type, e.g. gof3r")
	createCmd.Flags().StringVar(&req.ToURL, "to-url", "", "Target URL")
	createCmd.Flags().StringVar(&toName, "to-name", "", "Target name")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := endpoint()
			if err != nil {
				return err
			}
			xfer, err := transfers.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, xfer)
		},
	}

	transfersCmd.AddCommand(listCmd, infoCmd, createCmd, deleteCmd)
	return transfersCmd
}

func newSchedulesCmd(configPath *string) *cobra.Command {
	var group string
	schedulesCmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage the schedules of a group",
	}
	schedulesCmd.PersistentFlags().StringVarP(&group, "group", "g", "", "Group owning the schedules")
	_ = schedulesCmd.MarkPersistentFlagRequired("group")

	endpoint := func() (*transferatu.ScheduleClient, error) {
		client, err := loadClient(*configPath)
		if err != nil {
			return nil, err
		}
		return client.Group(group).Schedules(), nil
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := endpoint()
			if err != nil {
				return err
			}
			list, err := schedules.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info ID",
		Short: "Show a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := endpoint()
			if err != nil {
				return err
			}
			sched, err := schedules.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, sched)
		},
	}

	var req transferatu.ScheduleRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := endpoint()
			if err != nil {
				return err
			}
			sched, err := schedules.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, sched)
		},
	}
	createCmd.Flags().StringVar(&req.Name, "name", "", "Schedule name")
	createCmd.Flags().StringVar(&req.CallbackURL, "callback-url", "", "URL notified when the schedule fires")
	createCmd.Flags().IntVar(&req.Hour, "hour", 0, "Hour of day the schedule fires")
	createCmd.Flags().StringSliceVar(&req.Days, "days", nil, "Days the schedule fires, default every day")
	createCmd.Flags().StringVar(&req.Timezone, "timezone", "", "Timezone for hour, default UTC")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := endpoint()
			if err != nil {
				return err
			}
			sched, err := schedules.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, sched)
		},
	}

	schedulesCmd.AddCommand(listCmd, infoCmd, createCmd, deleteCmd)
	return schedulesCmd
}
