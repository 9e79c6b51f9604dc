package main

import (
	"fmt"
	"os"

	"github.com/hugohenrick/chat-mobile/internal/infrastructure/database"
	"github.com/hugohenrick/chat-mobile/pkg/config"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// migrationFlags são as opções comuns a todos os subcomandos
type migrationFlags struct {
	DatabaseURL    string
	MigrationsPath string
}

func (f *migrationFlags) bind(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.DatabaseURL, "database-url", cfg.Database.URL, "URL de conexão com o PostgreSQL (padrão: DATABASE_URL)")
	fs.StringVar(&f.MigrationsPath, "path", cfg.Database.MigrationsPath, "Diretório com os arquivos de migração")
}

// dbURL resolve a URL do banco, montando-a a partir das variáveis DB_* quando necessário
func (f *migrationFlags) dbURL() string {
	if f.DatabaseURL != "" {
		return f.DatabaseURL
	}
	return database.NewPostgresConfigFromEnv().ConnectionString()
}

func (f *migrationFlags) migrator() (*database.Migrator, error) {
	return database.NewMigrator(f.MigrationsPath, f.dbURL())
}

func newRootCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	flags := &migrationFlags{}

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Gerencia o schema do banco de conversas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.bind(root.PersistentFlags(), cfg)

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica as migrações pendentes",
			RunE: func(*cobra.Command, []string) error {
				mg, err := flags.migrator()
				if err != nil {
					return err
				}
				defer mg.Close()

				if err := mg.Up(); err != nil {
					return err
				}
				log.Info("Migrações executadas com sucesso")
				return nil
			},
		},
		newDownCommand(flags, log),
		&cobra.Command{
			Use:   "version",
			Short: "Mostra a versão atual do schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				mg, err := flags.migrator()
				if err != nil {
					return err
				}
				defer mg.Close()

				version, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			},
		},
	)

	return root
}

func newDownCommand(flags *migrationFlags, log logger.Logger) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Desfaz migrações aplicadas",
		RunE: func(*cobra.Command, []string) error {
			mg, err := flags.migrator()
			if err != nil {
				return err
			}
			defer mg.Close()

			if err := mg.Down(steps); err != nil {
				return err
			}
			log.Info("Migrações desfeitas", "steps", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Quantidade de migrações a desfazer (0 desfaz todas)")

	return cmd
}

func main() {
	// Carregar variáveis de ambiente
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Warn("Arquivo .env não encontrado", "error", envErr)
	}

	if err := newRootCommand(cfg, log).Execute(); err != nil {
		log.Error("Erro ao executar migrações", "error", err)
		os.Exit(1)
	}
}
