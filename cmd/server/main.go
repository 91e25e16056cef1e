// Command server runs the three-level chess JSON API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/httpx"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/store"
)

// fileConfig is the optional tdchess.json.
type fileConfig struct {
	Addr     string `json:"addr"`
	DB       string `json:"db"`
	FEN      string `json:"fen"`
	SQLDebug bool   `json:"sqlDebug"`
}

const configName = "tdchess.json"

func main() {
	addr := flag.String("addr", getenv("TDCHESS_ADDR", ":8080"), "listen address")
	dbPath := flag.String("db", getenv("TDCHESS_DB", ""), "sqlite file for saved games (empty disables saving)")
	sqlDebug := flag.Bool("sql-debug", getenb("TDCHESS_SQL_DEBUG", false), "log SQL statements")
	fen := flag.String("fen", getenv("TDCHESS_FEN", ""), "start position for new games (default: standard)")
	configPath := flag.String("config", getenv("TDCHESS_CONFIG", ""), "JSON config file (default: search for "+configName+")")
	flag.Parse()

	path := *configPath
	if path == "" {
		if found, err := findConfigPath(); err == nil {
			path = found
		}
	}
	if path != "" {
		cfg, err := loadConfig(path)
		fatalIf(err, "config")
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["addr"] && cfg.Addr != "" {
			*addr = cfg.Addr
		}
		if !set["db"] && cfg.DB != "" {
			*dbPath = cfg.DB
		}
		if !set["fen"] && cfg.FEN != "" {
			*fen = cfg.FEN
		}
		if !set["sql-debug"] && cfg.SQLDebug {
			*sqlDebug = true
		}
		log.Printf("Config loaded from %s", path)
	}

	var st *store.Store
	if *dbPath != "" {
		var err error
		st, err = store.Open(*dbPath, *sqlDebug)
		fatalIf(err, "store")
		defer st.Close()
		log.Printf("Saving games to %s", *dbPath)
	} else {
		log.Printf("No database configured; save endpoints are disabled.")
	}

	srv, err := httpx.NewServer(httpx.Options{Store: st, StartFEN: *fen})
	fatalIf(err, "http init")

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}

// findConfigPath walks up from the working directory looking for
// configName.
func findConfigPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found from %s", configName, cwd)
}

func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}
