package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_mailer/config"
	"github.com/Alijeyrad/simorq_mailer/pkg/email"
	"github.com/Alijeyrad/simorq_mailer/pkg/logs"
)

func NewCheckSMTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-smtp",
		Short: "Connect, STARTTLS and authenticate against the configured relay",
		Long: `Runs the same handshake a send performs (connect, STARTTLS, AUTH PLAIN)
and quits before MAIL FROM. No message is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, _, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			settings := email.StaticSettings(email.FromCentralConfig(cfg.Email))
			client, err := email.New(settings, email.WithLogger(logs.New(cfg)))
			if err != nil {
				return err
			}

			if err := client.Verify(cmd.Context()); err != nil {
				return fmt.Errorf("smtp check failed (%s): %w", email.KindOf(err), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SMTP relay %s:%s accepted credentials for %s\n",
				cfg.Email.Host, cfg.Email.Port, client.Mailbox())
			return nil
		},
	}

	return cmd
}
