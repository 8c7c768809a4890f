// Package config loads application configuration from environment
// variables and resolves the two SQLite database files the API needs.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	CatalogDBPath    string // anime-dimension.sqlite3, required
	AltCatalogDBPath string // anime.db alternate dataset, optional
	UsersDBPath      string // users.db, required

	SignupTokenSecret string // signs the short-lived signup tokens
	MailAPIKey        string // MailChannels API key, empty disables mail
	WwwRoot           string // static site root
}

// Load reads .env if present, resolves the database files and returns
// the configuration. Missing required databases are fatal: the API is
// useless without its catalog.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:               getenv("APP_ENV", "dev"),
		Port:              getenv("APP_PORT", "8080"),
		SignupTokenSecret: getenv("SIGNUP_TOKEN_SECRET", "dev-signup-secret"),
		MailAPIKey:        os.Getenv("MAILCHANNELS_API_KEY"),
		WwwRoot:           getenv("WWW_ROOT", filepath.Join("api", "www", "api")),
	}

	dirs := probeDirs()

	cfg.CatalogDBPath = resolveDB("ANIME_DIMENSION_DB_PATH", "anime-dimension.sqlite3", dirs)
	if cfg.CatalogDBPath == "" {
		log.Fatalf("missing required anime-dimension.sqlite3 file, probed but not found\n%s\nhint: set ANIME_DIMENSION_DB_PATH to an absolute path",
			probeDiagnostics(dirs))
	}

	cfg.AltCatalogDBPath = resolveDB("ANIME_DB_PATH", "anime.db", dirs)

	cfg.UsersDBPath = resolveDB("USERS_DB_PATH", "users.db", dirs)
	if cfg.UsersDBPath == "" {
		log.Fatalf("missing required users.db file, hint: set USERS_DB_PATH to an absolute path")
	}

	return cfg
}

// probeDirs lists the directories searched for database files: the
// executable's directory, the working directory, and their parents.
func probeDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Dir(exeDir))
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd, filepath.Dir(cwd))
	}
	return dirs
}

// resolveDB honors the env var when it points at an existing file, then
// probes the candidate directories for the default file name.
func resolveDB(envKey, fileName string, dirs []string) string {
	if p := strings.TrimSpace(os.Getenv(envKey)); p != "" {
		if abs, err := filepath.Abs(p); err == nil && fileExists(abs) {
			return abs
		}
	}
	for _, d := range dirs {
		cand := filepath.Join(d, fileName)
		if fileExists(cand) {
			return cand
		}
	}
	return ""
}

func probeDiagnostics(dirs []string) string {
	var b strings.Builder
	for _, d := range dirs {
		fmt.Fprintf(&b, "probed: %s\n", d)
	}
	fmt.Fprintf(&b, "env ANIME_DIMENSION_DB_PATH=%s\n", orUnset(os.Getenv("ANIME_DIMENSION_DB_PATH")))
	fmt.Fprintf(&b, "env ANIME_DB_PATH=%s", orUnset(os.Getenv("ANIME_DB_PATH")))
	return b.String()
}

func orUnset(v string) string {
	if v == "" {
		return "<not-set>"
	}
	return v
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
