package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/pathway/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the course API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.ListenAddr
			}
			gin.SetMode(gin.ReleaseMode)
			srv := server.New(cmd.Context(), server.Deps{
				Store:    app.Store,
				Runner:   app.Generator,
				Lessons:  app.Lessons,
				Exporter: app.Exporter,
				Log:      app.Log,
				LLM:      app.LLM,
				Origins:  origins,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (ctrl+c to stop)\n", addr)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin, repeatable")
	return cmd
}
