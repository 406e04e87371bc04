package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/stream"
)

func (c *cli) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List panel accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := repository.NewAuthRepository(c.cfg.UsersPath(), c.logger.Named("users"))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tROLE\tFULL NAME")
			for _, u := range users.GetAll() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Role, u.FullName)
			}
			return w.Flush()
		},
	}
}

func (c *cli) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List registered devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices := repository.NewDeviceRepository(c.cfg.DevicesPath(), c.logger.Named("devices"))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tCONNECTION")
			for _, d := range devices.GetAll() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.Status, d.ConnectionInfo)
			}
			return w.Flush()
		},
	}
}

func (c *cli) eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events [count]",
		Short: "Show the newest controller events from the Redis stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.RedisEnabled {
				return errors.New("redis event stream is disabled (set REDIS_ENABLED=true)")
			}
			count := int64(20)
			if len(args) == 1 {
				n, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				count = n
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client, err := stream.Connect(ctx, c.cfg.RedisAddr, c.cfg.RedisPassword)
			if err != nil {
				return err
			}
			defer client.Close()

			sink := stream.NewSink(client, c.cfg.RedisStream, 0, c.logger.Named("stream"))
			msgs, err := sink.Recent(ctx, count)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tCONTROLLER\tKIND\tDATA")
			for _, m := range msgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Timestamp.Format(time.DateTime), m.Controller, m.Kind, m.Data)
			}
			return w.Flush()
		},
	}
}
