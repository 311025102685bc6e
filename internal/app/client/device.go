package client

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// loadDeviceID читает идентификатор устройства, при первом запуске
// создает и сохраняет новый.
func loadDeviceID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("ошибка чтения идентификатора устройства: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id), 0600); err != nil {
		return "", fmt.Errorf("ошибка сохранения идентификатора устройства: %w", err)
	}
	return id, nil
}
