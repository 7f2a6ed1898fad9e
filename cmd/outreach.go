package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/outreach"
	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/mailer"
)

var outreachDryRun bool

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Send the application email to enriched businesses not yet contacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		log := zap.L().With(
			zap.String("command", "outreach"),
			zap.String("run_id", uuid.NewString()),
		)

		st := store.New(cfg.Store.Path, log)

		if outreachDryRun {
			snapshot, err := st.Load()
			if err != nil {
				return eris.Wrap(err, "outreach: load store")
			}
			pending := snapshot.Pending()
			log.Info("dry run, no mail sent", zap.Int("pending", len(pending)))
			for _, rec := range pending {
				log.Info("would send", zap.String("place", rec.Name), zap.String("to", rec.Email))
			}
			return nil
		}

		if err := cfg.Validate("outreach"); err != nil {
			return err
		}

		tmpl, err := outreach.NewTemplate(outreach.TemplateConfig{
			Subject:    cfg.Mail.Subject,
			BodyPath:   cfg.Mail.BodyPath,
			ResumePath: cfg.Mail.ResumePath,
			BaseDir:    cfg.Mail.BaseDir,
		})
		if err != nil {
			return err
		}

		sender := mailer.NewSender(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Account:  cfg.Mail.Account,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})

		dispatcher := outreach.NewDispatcher(st, sender, tmpl, log)

		report, err := dispatcher.DispatchAll(ctx)
		if err != nil {
			return eris.Wrap(err, "outreach")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	outreachCmd.Flags().BoolVar(&outreachDryRun, "dry-run", false, "list pending recipients without sending")
	rootCmd.AddCommand(outreachCmd)
}
