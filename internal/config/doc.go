// Package config provides centralized configuration management for the
// risk predictor. It loads configuration from multiple sources, validates
// it, and hands a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml or configs/config.yaml (or DEFASAGEM_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DEFASAGEM_<SECTION>_<FIELD>:
//
//	DEFASAGEM_SERVER_PORT=8080
//	DEFASAGEM_LOGGING_LEVEL=debug
//	DEFASAGEM_PATHS_MODELS_DIR=/srv/defasagem/models
//	DEFASAGEM_PREDICTION_DEBUG=true
//
// # Model Artifacts
//
// The trained pipeline and its config live in the models directory under
// fixed names (modelo_passos_magicos.json and config_passos_magicos.yaml).
// A relative models directory is resolved against the working directory
// first and the executable's directory second.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr := cfg.Server.Address()
//
// Tests use Default() and adjust fields directly.
package config
