package main

import (
	"strconv"

	"github.com/advdv/rawhttp/rawd"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rawhttpd",
		Short: "A minimal HTTP/1.1 server on a raw TCP socket",
		Long: `rawhttpd serves one request per connection, straight from the socket.

It exposes a welcome page on /, an echo endpoint on /echo and a small JSON
collection on /data. Configuration is read from RAWHTTP_* environment variables;
the flags of the serve command take precedence.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

func newServeCommand() *cobra.Command {
	var (
		host     string
		port     int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen and serve until interrupted",
		Example: `  rawhttpd serve
  rawhttpd serve --host 0.0.0.0 --port 9000 --log-level debug
  RAWHTTP_STORE=dynamodb RAWHTTP_DYNAMODB_TABLE=items rawhttpd serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := map[string]string{}
			if cmd.Flags().Changed("host") {
				overrides["RAWHTTP_HOST"] = host
			}
			if cmd.Flags().Changed("port") {
				overrides["RAWHTTP_PORT"] = strconv.Itoa(port)
			}
			if cmd.Flags().Changed("log-level") {
				overrides["RAWHTTP_LOG_LEVEL"] = logLevel
			}

			app := rawd.NewApp(rawd.WithEnvOverrides(overrides))
			if err := app.Err(); err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "host to bind (RAWHTTP_HOST)")
	cmd.Flags().IntVar(&port, "port", 8080, "port to bind (RAWHTTP_PORT)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error (RAWHTTP_LOG_LEVEL)")

	return cmd
}
