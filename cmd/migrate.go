package cmd

import (
	"github.com/spf13/cobra"

	"github.com/meinhoongagan/therapy-booking/db"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and booking constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			return db.Migrate(rt.db, rt.log)
		},
	}
}
