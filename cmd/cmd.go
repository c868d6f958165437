package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "stocker",
	Short: "Stocker inventory management",
	Long:  `Inventory management for products, categories and suppliers, with low-stock and expiry alerts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()
		logger.Init(os.Getenv("APP_ENV"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		logger.SetLevel(cfg.Observability.Logging.Level)
		return cfg, nil
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("mail.workers", 4)
	v.SetDefault("mail.queue_size", 100)
	v.SetDefault("storage.avatar_folder", "images/avatars")
	v.SetDefault("storage.product_folder", "products")
	v.SetDefault("storage.supplier_folder", "suppliers")
	v.SetDefault("notification.expiry_window_days", internal.DefaultExpiryWindowDays)
	v.SetDefault("notification.schedule", internal.DefaultSweepSchedule)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.SetLevel(cfg.Observability.Logging.Level)
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
