package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the client.
type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Storage struct {
		Dir string
	}

	RollbarToken string
}

// NewConfig loads configuration from defaults, an optional config/.env.<env>
// file and environment variables prefixed with the current ENV
// (DEV (default), TEST, QA or PROD).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EduTrack")
	v.SetDefault("build", "dev")
	v.SetDefault("apiUrl", "http://localhost:5000/api")
	v.SetDefault("apiTimeout", 30*time.Second)
	v.SetDefault("storageDir", defaultStorageDir())
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.API.BaseURL = v.GetString("apiUrl")
	conf.API.Timeout = v.GetDuration("apiTimeout")
	conf.Storage.Dir = v.GetString("storageDir")
	return conf, nil
}

func defaultStorageDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "edutrack")
}
