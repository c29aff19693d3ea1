package config

import "time"

// Application constants
const (
	AppName   = "Preditor de Risco de Defasagem"
	AppVendor = "Passos Mágicos"

	// EnvPrefix namespaces every environment variable, e.g. DEFASAGEM_SERVER_PORT.
	EnvPrefix = "DEFASAGEM"

	// Model artifacts, relative to the models directory
	DefaultModelsDir       = "models"
	DefaultModelFile       = "modelo_passos_magicos.json"
	DefaultModelConfigFile = "config_passos_magicos.yaml"

	DefaultLogsDir  = "logs"
	DefaultLogFile  = "logs/app.log"
	DefaultHTTPPort = 8080

	// Attribution chart
	DefaultMaxDisplay = 10
	MaxMaxDisplay     = 50

	// Uploads
	DefaultMaxUploadBytes = 10 << 20

	// Timeouts
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
