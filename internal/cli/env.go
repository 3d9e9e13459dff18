package cli

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes the environment variables that override flag defaults.
const EnvPrefix = "RDRSCRIPT"

// Env holds the RDRSCRIPT_* variables. Each one supplies the default of the
// flag with the same name.
type Env struct {
	Debug     bool
	LogLevel  string `split_words:"true" default:"warn"`
	LogFormat string `split_words:"true" default:"text"`
	Dir       string `default:"."`
	Library   string

	App          string `default:"cn.fmsoft.hvml.purcmc"`
	Runner       string `default:"sample"`
	Name         string
	Renderer     string        `default:"unix:///var/tmp/purcmc.sock"`
	MetricsAddr  string        `split_words:"true"`
	RedisAddr    string        `split_words:"true"`
	LockTTL      time.Duration `split_words:"true"`
	ExitWhenIdle bool          `split_words:"true"`
	Quiet        bool
}

// LoadEnv decodes the environment. A variable that does not parse is an error.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("environment: %w", err)
	}
	return env, nil
}
