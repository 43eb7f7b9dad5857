package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/auth"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/controllers"
	"github.com/meinhoongagan/therapy-booking/cron"
	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/redis"
	"github.com/meinhoongagan/therapy-booking/repository"
	"github.com/meinhoongagan/therapy-booking/routes"
	"github.com/meinhoongagan/therapy-booking/scheduling"
	"github.com/meinhoongagan/therapy-booking/services"
	"github.com/meinhoongagan/therapy-booking/utils"
)

func newServeCommand() *cobra.Command {
	var (
		noCron          bool
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the complete-past scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()
			cfg, log := rt.cfg, rt.log

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tokens := auth.NewTokens(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

			var mailer services.Mailer = utils.NewLogMailer(log)
			if cfg.SMTP.Host != "" {
				mailer = utils.NewGomailMailer(cfg.SMTP)
			}

			appointmentRepo := repository.NewAppointmentRepository(rt.db)
			userRepo := repository.NewUserRepository(rt.db)
			appointmentSvc := services.NewAppointmentService(appointmentRepo, userRepo, scheduling.DefaultPolicy(), mailer, log)
			userSvc := services.NewUserService(userRepo, tokens, mailer, cfg.AppDomain, log)
			therapySvc := services.NewTherapyCatalog(repository.NewTherapyRepository(rt.db))
			adviceSvc := services.NewAdviceCatalog(repository.NewAdviceRepository(rt.db))
			serviceSvc := services.NewServiceCatalog(repository.NewServiceRepository(rt.db))
			resourceSvc := services.NewResourceCatalog(repository.NewResourceRepository(rt.db))

			handlers := routes.Handlers{
				Protected:    middleware.Protected(tokens, log),
				Gate:         authz.NewGate(log),
				Appointments: controllers.NewAppointmentController(appointmentSvc),
				Users:        controllers.NewUserController(userSvc),
				Therapies:    controllers.NewTherapyController(therapySvc),
				Advices:      controllers.NewAdviceController(adviceSvc),
				Services:     controllers.NewServiceController(serviceSvc),
				Resources:    controllers.NewResourceController(resourceSvc),
			}
			if cfg.Cloudinary.CloudName != "" {
				uploader, err := utils.NewCloudinaryUploader(cfg.Cloudinary)
				if err != nil {
					return err
				}
				handlers.Files = controllers.NewFileController(uploader, log)
			} else {
				log.Warn("cloudinary not configured, /files disabled")
			}

			if !noCron {
				var locker cron.Locker
				if cfg.Redis.Addr != "" {
					client, err := redis.NewClient(ctx, cfg.Redis)
					if err != nil {
						return err
					}
					defer client.Close()
					locker = redis.NewLocker(client)
				}
				scheduler := cron.NewScheduler(appointmentSvc, locker, log)
				if err := scheduler.Start(cfg.Cron.CompleteSpec); err != nil {
					return err
				}
				defer scheduler.Stop()
			}

			app := fiber.New(fiber.Config{
				AppName:      "therapy-booking",
				ErrorHandler: controllers.ErrorHandler(log),
				BodyLimit:    10 << 20,
			})
			app.Use(recover.New())
			app.Use(fiberlogger.New())
			app.Use(cors.New(cors.Config{
				AllowOrigins: "*",
			}))
			routes.Setup(app, handlers)

			errCh := make(chan error, 1)
			go func() {
				log.Info("server starting", zap.String("port", cfg.Port))
				errCh <- app.Listen(":" + cfg.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&noCron, "no-cron", false, "Do not start the complete-past scheduler")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")

	return cmd
}
