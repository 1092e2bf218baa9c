package cmds

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/lavagna-ai/lavagna/pkg/conversation"
	"github.com/lavagna-ai/lavagna/pkg/openrouter"
)

func stateDir() (string, error) {
	dir := viper.GetString("state-dir")
	if dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(homeDir, ".lavagna"), nil
}

func newStateStore() (conversation.StateStore, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	if viper.GetBool("sqlite") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create state directory")
		}
		return conversation.NewSQLiteStateStore(filepath.Join(dir, "lavagna.db"))
	}
	return conversation.NewFileStateStore(dir)
}

// newClient builds the completion client, or an error when the API key is
// not configured. Chat functionality is unavailable without it; the rest
// of the tool keeps working.
func newClient() (*openrouter.Client, error) {
	apiKey := viper.GetString("openrouter-api-key")
	if apiKey == "" {
		return nil, errors.New("no OpenRouter API key configured, chat is disabled (set LAVAGNA_OPENROUTER_API_KEY)")
	}
	return openrouter.NewClient(apiKey), nil
}
