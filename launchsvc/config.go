package launchsvc

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LaunchServiceURL     string  `envconfig:"LAUNCH_SERVICE_URL" required:"true"`
	LaunchServiceAPIKey  string  `envconfig:"LAUNCH_SERVICE_API_KEY"`
	LaunchServiceTimeout int     `envconfig:"LAUNCH_SERVICE_TIMEOUT" default:"30"` // in seconds
	PriorityFee          float64 `envconfig:"LAUNCH_PRIORITY_FEE" default:"0.0005"`
	Pool                 string  `envconfig:"LAUNCH_POOL" default:"pump"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
