package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the application configuration. Every field can be set from the
// YAML file or overridden by its environment variable.
type Config struct {
	// Environment is development or production and selects the logger setup.
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the level chosen by Environment when set.
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	HTTP struct {
		Addr              string        `env:"HTTP_ADDR"                env-default:":8080" yaml:"addr"`
		ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        env-default:"1m"    yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"   yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       env-default:"2m"    yaml:"writeTimeout"`
		IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        env-default:"2m"    yaml:"idleTimeout"`
		// RequestTimeout bounds the handling of a single request.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT"  env-default:"10s"      yaml:"requestTimeout"`
		MaxHeaderBytes int           `env:"HTTP_MAX_HEADER_BYTES" env-default:"0"        yaml:"maxHeaderBytes"`
		MetricsPath    string        `env:"HTTP_METRICS_PATH"     env-default:"/metrics" yaml:"metricsPath"`
		// MaxBodyBytes caps JSON request bodies.
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// JobsUIPath mounts the job queue dashboard. Empty disables it.
		JobsUIPath string `env:"HTTP_JOBS_UI_PATH" env-default:"/riverui" yaml:"jobsUIPath"`
		// CORSOrigins are the browser origins allowed to call the API; "*"
		// allows any.
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," yaml:"corsOrigins"`
	} `yaml:"http"`

	Database struct {
		Username           string        `env:"DATABASE_USERNAME"                 env-default:"myuser"     yaml:"username"`
		Password           string        `env:"DATABASE_PASSWORD"                 env-default:"mypassword" yaml:"password"`
		Host               string        `env:"DATABASE_HOST"                     env-default:"localhost"  yaml:"host"`
		Port               int           `env:"DATABASE_PORT"                     env-default:"5432"       yaml:"port"`
		SslMode            string        `env:"DATABASE_SSL_MODE"                 env-default:"disable"    yaml:"sslMode"`
		DatabaseName       string        `env:"DATABASE_NAME"                     env-default:"calculus"   yaml:"name"`
		MaxOpenConnections int           `env:"DATABASE_MAX_OPEN_CONNECTIONS"     env-default:"10"         yaml:"maxOpenConnections"`
		MaxIdleConnections int           `env:"DATABASE_MAX_IDLE_CONNECTIONS"     env-default:"8"          yaml:"maxIdleConnections"`
		ConnMaxLifetime    time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME"  env-default:"3m"         yaml:"connMaxLifetime"`
		ConnMaxIdleTime    time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m"         yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT holds PEM encoded RSA keys. Authentication is disabled when
	// PublicKey is empty; PrivateKey is only needed by the jwt command.
	JWT struct {
		PublicKey  string `env:"JWT_PUBLIC_KEY"  yaml:"publicKey"`
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	Engine struct {
		// DisagreementThreshold is the relative difference above which the
		// numerical value replaces the symbolic one.
		DisagreementThreshold float64 `env:"ENGINE_DISAGREEMENT_THRESHOLD" env-default:"0.01"     yaml:"disagreementThreshold"`
		AbsTolerance          float64 `env:"ENGINE_ABS_TOLERANCE"          env-default:"1.49e-8"  yaml:"absTolerance"`
		RelTolerance          float64 `env:"ENGINE_REL_TOLERANCE"          env-default:"1.49e-8"  yaml:"relTolerance"`
		MaxSubdivisions       int     `env:"ENGINE_MAX_SUBDIVISIONS"       env-default:"200"      yaml:"maxSubdivisions"`
		DivergenceTolerance   float64 `env:"ENGINE_DIVERGENCE_TOLERANCE"   env-default:"0.001"    yaml:"divergenceTolerance"`
		MaxSamples            int     `env:"ENGINE_MAX_SAMPLES"            env-default:"2001"     yaml:"maxSamples"`
	} `yaml:"engine"`

	Calculator struct {
		// ComputeTimeout bounds a single engine call.
		ComputeTimeout time.Duration `env:"CALCULATOR_COMPUTE_TIMEOUT" env-default:"5s" yaml:"computeTimeout"`
		// MaxAttempts is how often a background job is retried.
		MaxAttempts int `env:"CALCULATOR_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// ResultCacheTTL is how long a completed result is reused for
		// identical requests.
		ResultCacheTTL time.Duration `env:"CALCULATOR_RESULT_CACHE_TTL" env-default:"24h" yaml:"resultCacheTTL"`
		// MaxWorkers is the number of jobs processed concurrently.
		MaxWorkers int `env:"CALCULATOR_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// JobTimeout bounds one attempt of a background job.
		JobTimeout time.Duration `env:"CALCULATOR_JOB_TIMEOUT" env-default:"1m" yaml:"jobTimeout"`
	} `yaml:"calculator"`

	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the YAML file at configPath and applies environment overrides.
// A missing file is not an error: the configuration then comes from the
// environment and the defaults alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
