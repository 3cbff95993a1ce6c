package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Discovery Discovery `yaml:"discovery"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Discovery struct {
	DefaultRadiusKm float64 `yaml:"defaultRadiusKm"`
	DefaultLimit    int     `yaml:"defaultLimit"`
	MaxLimit        int     `yaml:"maxLimit"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Discovery.DefaultRadiusKm <= 0 {
		config.Discovery.DefaultRadiusKm = 50
	}
	if config.Discovery.DefaultLimit <= 0 {
		config.Discovery.DefaultLimit = 20
	}
	if config.Discovery.MaxLimit <= 0 {
		config.Discovery.MaxLimit = 100
	}

	return config, nil
}
