package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	aqitop "github.com/jondoveston/aqitop/internal"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aqitop [api-url]",
	Short: "Terminal dashboard for air quality sensor history",
	Long: `aqitop polls an AQI history API and charts the last 24 hours and
7 days of readings for a single sensor station.

Examples:
  aqitop https://aqi.example.org
  aqitop --api-url https://aqi.example.org
  AQITOP_API_URL=https://aqi.example.org aqitop
  NH_AQI_API_URL=https://aqi.example.org aqitop`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Define flags
	rootCmd.Flags().String("api-url", "", "AQI history API base URL")
	rootCmd.Flags().String("config", "", "Config file (yaml, toml or json)")
	rootCmd.Flags().Duration("poll-interval", aqitop.PollDuration(), "Time between history fetches")
	rootCmd.Flags().Duration("request-timeout", 0, "Timeout for each history request (0 disables)")
	rootCmd.Flags().String("title", "", "Dashboard title")
	rootCmd.Flags().String("subtitle", "", "Dashboard subtitle")
	rootCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-file", "", "Write logs to this file instead of stderr")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9101")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	// Bind flags to Viper keys (note: dashes in flags become underscores in viper)
	for _, name := range []string{"api-url", "poll-interval", "request-timeout", "title", "subtitle", "log-level", "log-file", "metrics-addr"} {
		if err := viper.BindPFlag(flagKey(name), rootCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}

	// Configure Viper for environment variables
	viper.SetEnvPrefix("aqitop")
	viper.AutomaticEnv()

	// The web deployment names the API URL variable differently
	if err := viper.BindEnv("api_url", "AQITOP_API_URL", "NH_AQI_API_URL", "NEXT_PUBLIC_NH_AQI_API_URL"); err != nil {
		panic(fmt.Sprintf("failed to bind api_url: %v", err))
	}

	// Set defaults
	viper.SetDefault("poll_interval", aqitop.PollDuration())
	viper.SetDefault("title", "Nettelhorst AQI Monitor")
	viper.SetDefault("subtitle", "Nettelhorst, Chicago IL")
	viper.SetDefault("log_level", "info")
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// loadDotEnv reads .env.local then .env; variables already set win
func loadDotEnv() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	// Handle --version flag first
	versionFlag, _ := cmd.Flags().GetBool("version")
	if versionFlag {
		fmt.Println(version.Print("aqitop"))
		return nil
	}

	if err := loadDotEnv(); err != nil {
		return err
	}

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Handle positional argument (only if api_url not already set by env var, flag or file)
	if len(args) == 1 && viper.GetString("api_url") == "" {
		viper.Set("api_url", args[0])
	}

	// Set up logging
	var logOutput io.Writer = os.Stderr
	if path := viper.GetString("log_file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}
	logger, err := aqitop.NewLogger(logOutput, viper.GetString("log_level"))
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "Starting aqitop", "version", version.Info(), "build_context", version.BuildContext())

	apiURL := viper.GetString("api_url")
	if apiURL == "" {
		return errors.New("api_url must be set")
	}

	client, err := aqitop.NewHistoryClient(apiURL, viper.GetDuration("request_timeout"), logger)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "Using AQI history API", "url", apiURL, "station", aqitop.STATION_ID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := viper.GetString("metrics_addr"); addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		client.WithMetrics(aqitop.NewMetrics(reg))
		go serveMetrics(addr, reg, logger)
	}

	// Start dashboard
	return aqitop.Dashboard(ctx, client, aqitop.Config{
		Title:        viper.GetString("title"),
		Subtitle:     viper.GetString("subtitle"),
		PollInterval: viper.GetDuration("poll_interval"),
	}, logger)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) {
	level.Info(logger).Log("msg", "Serving metrics", "addr", addr)
	if err := aqitop.ServeMetrics(addr, reg, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		level.Error(logger).Log("msg", "Error starting HTTP server", "err", err)
	}
}
