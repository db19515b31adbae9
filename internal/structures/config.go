package structures

import "time"

type Server struct {
	Host      string `yaml:"host" validate:"required"`
	Port      int    `yaml:"port" validate:"required|uint|min:1"`
	PublicDir string `yaml:"publicDir"`
}

type StorageConfig struct {
	Path string `yaml:"path" validate:"required|unixPath"`
}

type TrackingConfig struct {
	SessionTimeout time.Duration `yaml:"sessionTimeout" validate:"required|min:1"`
	CookieMaxAge   time.Duration `yaml:"cookieMaxAge" validate:"required|min:1"`
	FlushTimeout   time.Duration `yaml:"flushTimeout"`
}

type SnapshotConfig struct {
	Enabled      bool          `yaml:"enabled"`
	FilePath     string        `yaml:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerSecond int  `yaml:"requestsPerSecond"`
	Burst             int  `yaml:"burst"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Storage   StorageConfig   `yaml:"storage"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
