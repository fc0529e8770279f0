package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

func (r Route) Pattern() string {
	if r.Method == "" {
		return r.Url
	}
	return r.Method + " " + r.Url
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type TrackerConfig struct {
	BaseUrl   string        `yaml:"baseUrl" validate:"required|fullUrl"`
	SocketUrl string        `yaml:"socketUrl" validate:"required"`
	EventId   int           `yaml:"eventId" validate:"required|uint|min:1"`
	ApiToken  string        `yaml:"apiToken"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ProcessingConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	HistoryLimit    int           `yaml:"historyLimit"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SocketConfig struct {
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Tracker     TrackerConfig    `yaml:"tracker"`
	Processing  ProcessingConfig `yaml:"processing"`
	Socket      SocketConfig     `yaml:"socket"`
	WebServer   Server           `yaml:"webServer"`
	Persistence Persistence      `yaml:"persistence"`
	Logger      LoggerConfig     `yaml:"logger"`
	Cache       CacheConfig      `yaml:"cache"`
	Metrics     MetricsConfig    `yaml:"metrics"`
}
