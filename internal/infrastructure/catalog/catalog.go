// Package catalog загружает входные данные оценки: список оружия и схему предметов.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"kitflip/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const upgradeablePrefix = "Upgradeable "

// LoadWeaponNames читает список оружия: одно имя в строке, пустые строки и # пропускаются.
// Дубликаты не удаляются.
func LoadWeaponNames(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer fh.Close()

	var names []string

	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err: %w", err)
	}

	return names, nil
}

type schemaItem struct {
	Defindex int    `json:"defindex"`
	Name     string `json:"name"`
	ItemName string `json:"item_name"`
}

type schemaFile struct {
	Items  []schemaItem `json:"items"`
	Result struct {
		Items []schemaItem `json:"items"`
	} `json:"result"`
}

// LoadSchema читает схему предметов в формате Steam GetSchemaItems
// ({"result":{"items":[...]}} или {"items":[...]}).
// При совпадении отображаемых имён выигрывает upgradeable-вариант, иначе первый.
func LoadSchema(path string) (*value.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var file schemaFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := file.Items
	if len(items) == 0 {
		items = file.Result.Items
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("schema %s has no items", path)
	}

	byName := make(map[string]int, len(items))
	upgradeable := make(map[string]bool, len(items))

	for _, item := range items {
		if item.ItemName == "" {
			continue
		}

		isUpgradeable := strings.HasPrefix(item.Name, upgradeablePrefix)

		if _, ok := byName[item.ItemName]; ok && (upgradeable[item.ItemName] || !isUpgradeable) {
			continue
		}

		byName[item.ItemName] = item.Defindex
		upgradeable[item.ItemName] = isUpgradeable
	}

	return value.NewSchema(byName), nil
}
