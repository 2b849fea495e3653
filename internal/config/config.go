package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const appName = "drt"

type Configuration struct {
	API struct {
		BaseURL string `default:"http://localhost:8000/api" env:"API_BASE_URL" yaml:"base_url"`
		// 0s disables the client timeout
		Timeout string `default:"0s" env:"API_TIMEOUT" yaml:"timeout"`
	} `yaml:"api"`
	Log struct {
		Level string `default:"info" env:"LOG_LEVEL" yaml:"level"`
		File  string `default:"" env:"LOG_FILE" yaml:"file"`
	} `yaml:"log"`
	Data struct {
		Dir string `default:"" env:"DRT_DATA_DIR" yaml:"dir"`
	} `yaml:"data"`
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load reads .env (if present), then the config files, then the environment
func Load(files ...string) (*Configuration, error) {
	_ = godotenv.Load()
	if len(files) == 0 {
		files = configFiles()
	}
	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, files...); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if _, err := conf.APITimeout(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Configuration) APITimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid API_TIMEOUT %q", c.API.Timeout)
	}
	if d < 0 {
		return 0, errors.Errorf("invalid API_TIMEOUT %q: negative", c.API.Timeout)
	}
	return d, nil
}

// DataDir returns the directory holding the settings database and the log
// file, creating it when missing. Defaults to the XDG data directory.
func (c *Configuration) DataDir() (string, error) {
	dir := c.Data.Dir
	if dir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", errors.Wrap(err, "resolve home dir")
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(dataHome, appName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "create data dir %s", dir)
	}
	return dir, nil
}

// LogFile returns the configured log path or drt.log in the data dir
func (c *Configuration) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// DatabaseFile returns the path of the settings database
func (c *Configuration) DatabaseFile() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".db"), nil
}
