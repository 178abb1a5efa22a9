package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	vCfg   = viper.New()
	cfgDir string
)

const (
	defaultBranch = "master"
	defaultJobs   = 8
)

func Load() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	cfgDir = filepath.Join(home, ".git-splice")

	vCfg.SetConfigName("config")
	vCfg.SetConfigType("yaml")
	vCfg.AddConfigPath(cfgDir)

	vCfg.SetEnvPrefix("GIT_SPLICE")
	vCfg.AutomaticEnv()

	vCfg.SetDefault("branch", defaultBranch)
	vCfg.SetDefault("source_branch", defaultBranch)
	vCfg.SetDefault("jobs", defaultJobs)

	if err := vCfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// GetBranch returns the target branch the spliced history is published to.
func GetBranch() string {
	return vCfg.GetString("branch")
}

// GetSourceBranch returns the branch fetched from sources whose URL does not
// name one explicitly.
func GetSourceBranch() string {
	return vCfg.GetString("source_branch")
}

// GetJobs returns the bound on concurrent fetches and object reads.
func GetJobs() int {
	jobs := vCfg.GetInt("jobs")
	if jobs < 1 {
		return defaultJobs
	}
	return jobs
}
