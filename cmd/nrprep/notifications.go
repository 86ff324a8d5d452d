package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/nerdgraph"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

// NewDestinationsCmd creates the destinations command.
func NewDestinationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "Delete AI notification destinations in each account",
		Args:  cobra.NoArgs,
		RunE:  runDestinationsCmd,
	}

	cmd.Flags().String("ids", "", "CSV file of account IDs (required)")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}

// runDestinationsCmd executes the destinations command.
func runDestinationsCmd(cmd *cobra.Command, args []string) error {
	client, err := newNerdGraphClient(cmd)
	if err != nil {
		return err
	}

	idsPath, _ := cmd.Flags().GetString("ids")
	accountIDs, err := nerdgraph.ReadAccountIDsCSV(idsPath)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	out := cmd.OutOrStdout()
	for _, accountID := range accountIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(out, "\nProcessing account %d\n", accountID)

		destinationIDs, err := client.DestinationIDs(ctx, accountID)
		if err != nil {
			logger.Error("listing destinations failed", "account_id", accountID, "error", err.Error())
			continue
		}
		if len(destinationIDs) == 0 {
			fmt.Fprintln(out, "  No AI notification destinations found.")
			continue
		}

		for _, destinationID := range destinationIDs {
			if err := client.DeleteDestination(ctx, accountID, destinationID); err != nil {
				logger.Error("delete destination failed", "account_id", accountID, "destination_id", destinationID, "error", err.Error())
				continue
			}
			fmt.Fprintf(out, "  Deleted destination %s\n", destinationID)
		}
	}
	return nil
}

// NewChannelsCmd creates the channels command.
func NewChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Delete AI notification channels in each account",
		Args:  cobra.NoArgs,
		RunE:  runChannelsCmd,
	}

	cmd.Flags().String("ids", "", "CSV file of account IDs (required)")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}

// runChannelsCmd executes the channels command.
func runChannelsCmd(cmd *cobra.Command, args []string) error {
	client, err := newNerdGraphClient(cmd)
	if err != nil {
		return err
	}

	idsPath, _ := cmd.Flags().GetString("ids")
	accountIDs, err := nerdgraph.ReadAccountIDsCSV(idsPath)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	out := cmd.OutOrStdout()
	for _, accountID := range accountIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(out, "\nProcessing account %d\n", accountID)

		channels, err := client.Channels(ctx, accountID)
		if err != nil {
			logger.Error("listing channels failed", "account_id", accountID, "error", err.Error())
			continue
		}
		if len(channels) == 0 {
			fmt.Fprintln(out, "  No channels found.")
			continue
		}

		for _, channel := range channels {
			if err := client.DeleteChannel(ctx, accountID, channel.ID); err != nil {
				logger.Error("delete channel failed", "account_id", accountID, "channel_id", channel.ID, "error", err.Error())
				continue
			}
			fmt.Fprintf(out, "  Deleted channel %s (%s)\n", channel.ID, channel.Name)
		}
	}
	return nil
}
