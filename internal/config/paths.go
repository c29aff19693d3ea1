package config

import (
	"os"
	"path/filepath"
)

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ModelsDir       string `yaml:"models_dir" envconfig:"MODELS_DIR"`
	ModelFile       string `yaml:"model_file" envconfig:"MODEL_FILE"`
	ModelConfigFile string `yaml:"model_config_file" envconfig:"MODEL_CONFIG_FILE"`
	LogsDir         string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ResolveModelsDir returns the models directory. A relative directory is
// looked up in the working directory first and then next to the
// executable, so both `go run` from the repo root and an installed binary
// find the artifacts.
func (p PathsConfig) ResolveModelsDir() string {
	if filepath.IsAbs(p.ModelsDir) {
		return p.ModelsDir
	}
	if info, err := os.Stat(p.ModelsDir); err == nil && info.IsDir() {
		return p.ModelsDir
	}
	if exeDir, err := executableDir(); err == nil {
		candidate := filepath.Join(exeDir, p.ModelsDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return p.ModelsDir
}

// ModelPath returns the pipeline artifact path.
func (p PathsConfig) ModelPath() string {
	return filepath.Join(p.ResolveModelsDir(), p.ModelFile)
}

// ModelConfigPath returns the model config artifact path.
func (p PathsConfig) ModelConfigPath() string {
	return filepath.Join(p.ResolveModelsDir(), p.ModelConfigFile)
}

// executableDir returns the directory holding the running binary, with
// symlinks resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}
