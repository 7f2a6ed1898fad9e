package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
)

// storeStatus is the JSON shape printed by the status command.
type storeStatus struct {
	Path      string `json:"path"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Contacted int    `json:"contacted"`
	Pending   int    `json:"pending"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show partition and outreach counts from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("status"); err != nil {
			return err
		}

		st := store.New(cfg.Store.Path, zap.L())
		snapshot, err := st.Load()
		if err != nil {
			return eris.Wrap(err, "status: load store")
		}

		contacted := 0
		for _, rec := range snapshot.Succeeded {
			if rec.Contacted {
				contacted++
			}
		}

		out := storeStatus{
			Path:      cfg.Store.Path,
			Succeeded: len(snapshot.Succeeded),
			Failed:    len(snapshot.Failed),
			Contacted: contacted,
			Pending:   len(snapshot.Pending()),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
