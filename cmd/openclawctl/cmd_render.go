package main

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/openclawctl/internal/registry"
	"github.com/openclaw/openclawctl/internal/systemdgen"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the model document and systemd units",
	Long: `Validate the deployment configuration and write its two rendered outputs:
the model document the openclaw process reads at startup, and the systemd
service and timer units for the gateway and the scheduled jobs.

The running gateway does not watch either output; restart it (and run
systemctl daemon-reload) to apply changes.`,
	RunE: runRender,
}

var renderSkipUnits bool

func init() {
	renderCmd.Flags().BoolVar(&renderSkipUnits, "skip-units", false, "Only render the model document")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, deploy, log, err := loadAll()
	if err != nil {
		return err
	}

	docPath := cfg.ModelDocumentPath()
	if err := registry.Write(deploy, docPath); err != nil {
		return err
	}
	log.Info().Str("path", docPath).Int("models", len(deploy.Models)).Msg("wrote model document")

	if renderSkipUnits {
		return nil
	}

	units, err := systemdgen.Units(cfg, deploy)
	if err != nil {
		return err
	}
	if err := systemdgen.WriteUnits(cfg.UnitDir, units); err != nil {
		return err
	}
	for _, u := range units {
		log.Info().Str("unit", u.Name).Msg("wrote unit file")
	}
	log.Info().Msg("run `systemctl daemon-reload` and restart openclaw.service to apply")
	return nil
}
