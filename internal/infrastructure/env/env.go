package env

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type EnvService struct {
	appEnv string
	loaded []string
}

// NewEnvService loads .env and then .env.<APP_ENV> from the working
// directory. Missing files are fine: the process environment is used as is.
func NewEnvService() *EnvService {
	return NewEnvServiceFrom(".")
}

func NewEnvServiceFrom(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	s := &EnvService{appEnv: appEnv}

	secrets := filepath.Join(dir, ".env")
	if err := godotenv.Load(secrets); err == nil {
		s.loaded = append(s.loaded, secrets)
	}

	envFile := filepath.Join(dir, ".env."+appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		s.loaded = append(s.loaded, envFile)
	}

	return s
}

func (e *EnvService) AppEnv() string {
	if e.appEnv == "" {
		return "dev"
	}
	return e.appEnv
}

// LoadedFiles lists the dotenv files that were applied, in load order.
func (e *EnvService) LoadedFiles() []string {
	return append([]string(nil), e.loaded...)
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetFloat32(key string, defaultValue float32) float32 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return defaultValue
	}
	return float32(parsed)
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
