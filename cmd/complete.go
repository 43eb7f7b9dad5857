package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/repository"
	"github.com/meinhoongagan/therapy-booking/scheduling"
	"github.com/meinhoongagan/therapy-booking/services"
)

func newCompletePastCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete-past",
		Short: "Mark every occupied appointment that has already ended as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			svc := services.NewAppointmentService(
				repository.NewAppointmentRepository(rt.db),
				repository.NewUserRepository(rt.db),
				scheduling.DefaultPolicy(),
				nil,
				rt.log,
			)
			n, err := svc.CompletePastAppointments(cmd.Context())
			if err != nil {
				return err
			}
			rt.log.Info("complete-past finished", zap.Int64("completed", n))
			return nil
		},
	}
}
