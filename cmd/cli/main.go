package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/thedon-dev/Final-Year-Project/internal/app"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
	"github.com/thedon-dev/Final-Year-Project/pkg/config"
)

// runtime is what every command operates on
type runtime struct {
	repos      *repository.Repositories
	auth       *service.AuthService
	properties *service.PropertyService
	// ensureIndexes is nil when the backend has no indexes
	ensureIndexes func(ctx context.Context) error
	close         func() error
}

type opener func(ctx context.Context) (*runtime, error)

func main() {
	if err := newRootCmd(openRuntime).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(cfg.LogLevel)

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	auditLog, closeAudit, err := app.OpenAudit(ctx, cfg, log)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, "property-management", cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	rt := newRuntime(store.Repos, tokens, auditLog, log)
	rt.close = func() error {
		_ = closeAudit()
		return store.Close(context.Background())
	}
	if store.DB != nil {
		db := store.DB
		rt.ensureIndexes = func(ctx context.Context) error {
			return repository.EnsureIndexes(ctx, db, log)
		}
	}
	return rt, nil
}

func newRuntime(repos *repository.Repositories, tokens *auth.TokenManager, auditLog *audit.Logger, log *slog.Logger) *runtime {
	guard := security.NewGuard(log).WithAudit(auditLog)
	notifications := service.NewNotificationService(repos.Notifications, service.NewHub(), guard, log)
	return &runtime{
		repos:      repos,
		auth:       service.NewAuthService(repos.Users, tokens, nil, guard, log),
		properties: service.NewPropertyService(repos.Properties, guard, notifications, auditLog, cache.New(), time.Minute, log),
	}
}

func newRootCmd(open opener) *cobra.Command {
	var (
		rt      *runtime
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "propctl",
		Short:         "Administer the property management store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			var err error
			rt, err = open(ctx)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt != nil && rt.close != nil {
				return rt.close()
			}
			return nil
		},
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "time allowed for connecting to the store")

	current := func() *runtime { return rt }
	root.AddCommand(
		createAdminCmd(current),
		propertiesCmd(current),
		ensureIndexesCmd(current),
	)
	return root
}

func printProperties(out io.Writer, items []*domain.Property) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tSTATUS\tLANDLORD")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID.Hex(), p.Name, p.Address.City, p.Status, p.LandlordID.Hex())
	}
	w.Flush()
}

// adminSession resolves the acting admin by email
func adminSession(ctx context.Context, rt *runtime, email string) (*auth.Session, error) {
	if email == "" {
		return nil, fmt.Errorf("--as is required: the email of the admin performing the action")
	}
	user, err := rt.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("admin %s: %w", email, err)
	}
	if user.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%s is not an admin", email)
	}
	return &auth.Session{UserID: user.ID.Hex(), Email: user.Email, Role: user.Role}, nil
}
