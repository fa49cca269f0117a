// cmd/simulator/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/logger"
)

var (
	cfgFile   string
	ownerFlag string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Simulador de elegibilidade ao ProUni",
	Long: "Estima se um candidato tem chances de bolsa no ProUni, pelo motor de regras " +
		"local ou pelo modelo de classificação remoto, e guarda o histórico de simulações.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *config.Config
			err error
		)
		if cfgFile != "" {
			c, err = config.LoadFromFile(cfgFile)
		} else {
			c, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "owner of the records, overrides the saved login")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
