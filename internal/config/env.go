package config

import (
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// envFiles are read in order; later files override earlier ones.
var envFiles = []string{".env", ".env.local"}

// readEnvFiles loads KEY=VALUE pairs from the project's .env files without
// touching the process environment.
func readEnvFiles(root string) map[string]string {
	values := map[string]string{}
	for _, name := range envFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		vars, err := godotenv.Read(path)
		if err != nil {
			slog.Warn("Ignoring unreadable env file", logfields.Path(path), logfields.Error(err))
			continue
		}
		maps.Copy(values, vars)
		slog.Debug("Loaded environment file", logfields.Path(path), logfields.Count(len(vars)))
	}
	return values
}

// LookupEnv resolves key from the process environment first, then from the
// project's .env files.
func (s *Settings) LookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.dotenv[key]
	return v, ok
}

// Getenv is LookupEnv without the presence flag.
func (s *Settings) Getenv(key string) string {
	v, _ := s.LookupEnv(key)
	return v
}
