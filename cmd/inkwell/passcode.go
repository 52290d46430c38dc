package main

import (
	"github.com/spf13/cobra"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/server"
)

func newPasscodeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passcode",
		Short: "Manage the app lock passcode",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <passcode>",
			Short: "Set the passcode",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := auth.HashPasscode(args[0])
				if err != nil {
					return err
				}
				return withEnv(cfg, func(env *cliEnv) error {
					return env.store.SetSetting(cmd.Context(), server.PasscodeSettingKey, hash)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the passcode",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cfg, func(env *cliEnv) error {
					return env.store.DeleteSetting(cmd.Context(), server.PasscodeSettingKey)
				})
			},
		},
	)
	return cmd
}
