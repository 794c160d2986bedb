package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/app"
	"github.com/namefreezers/city-directory/internal/config"
	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/logging"
)

func main() {
	term := flag.String("q", "", "case-insensitive substring to filter city names by")
	pick := flag.String("select", "", "look up the weather for the first row whose name contains this")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	if err := a.Directory.Load(ctx); err != nil {
		logger.Warn("city table is empty", zap.Error(err))
	}

	sess := a.NewSession(logger)
	sess.SetSearchTerm(*term)
	rows := sess.View().Cities

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY NAME\tCOUNTRY\tTIMEZONE")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Country, c.Timezone)
	}
	_ = tw.Flush()

	if *pick == "" {
		return
	}
	matches := directory.Filter(rows, *pick)
	if len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "no row matches %q\n", *pick)
		os.Exit(1)
	}

	city, w, err := sess.SelectCity(ctx, matches[0].Key)
	if err != nil {
		// already logged by the session
		os.Exit(1)
	}
	fmt.Printf("\n%s\n", city.Name)
	fmt.Printf("Temperature: %v°C\n", w.Temperature)
	fmt.Printf("Description: %s\n", w.Description)
	fmt.Printf("Humidity: %v%%\n", w.Humidity)
	fmt.Printf("Wind Speed: %v m/s\n", w.WindSpeed)
	fmt.Printf("Pressure: %v hPa\n", w.Pressure)
}
