package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/suzuki-shunsuke/actup/refs/heads/main/json-schema/actup.json
# actup - https://github.com/suzuki-shunsuke/actup
version: 1
# database:
#   driver: sqlite # sqlite or postgres
#   dsn: actup.db
# workspace: tmp
# tracker_file: PR_TRACKER.md
# metrics_file: actup.prom
# github:
#   token_env: GITHUB_TOKEN
#   identity: actup-bot
# retry:
#   attempts: 3
#   delay: 10s
# fork:
#   settle_delay: 5s
# template_merge:
#   enabled: true
#   ollama_url: http://localhost:11434
#   model: qwen3:1.7b
`
	filePermission os.FileMode = 0o644
	dirPermission  os.FileMode = 0o755
)

// Init creates a configuration file with a commented template.
// An existing file is left as is. Missing parent directories are created.
func (c *Controller) Init(configFilePath string) error {
	logE := c.logE.WithField("config", configFilePath)
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		logE.Info("the configuration file already exists")
		return nil
	}
	if dir := filepath.Dir(configFilePath); dir != "." {
		if err := c.fs.MkdirAll(dir, dirPermission); err != nil {
			return fmt.Errorf("create a directory for the configuration file: %w", err)
		}
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	logE.Info("created a configuration file")
	return nil
}
