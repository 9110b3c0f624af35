// Command importfixtures seeds the matches table from a JSON fixtures
// file. The file maps week keys to fixture lists:
//
//	{"week_1": [{"id": 1, "home": "TeamA", "away": "TeamB", "result": null}]}
//
// Already-imported matches are left untouched, so the command is safe to
// re-run after updating the file with new weeks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"leaguebot/internal/config"
	"leaguebot/internal/logger"
	"leaguebot/internal/storage"
)

type fixture struct {
	ID     int64  `json:"id"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Result string `json:"result"`
}

func main() {
	file := flag.String("file", "matches_data.json", "path to the fixtures JSON file")
	flag.Parse()

	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := storage.InitDB(cfg.DatabasePath); err != nil {
		logger.Error(0, "db_init", err)
		os.Exit(1)
	}
	defer storage.CloseDB()

	imported, err := importFile(*file)
	if err != nil {
		logger.Error(0, "import_fixtures", err)
		os.Exit(1)
	}
	logger.Info(0, "import_fixtures", fmt.Sprintf("file=%s imported=%d", *file, imported))
}

func importFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var weeks map[string][]fixture
	if err := json.Unmarshal(data, &weeks); err != nil {
		return 0, fmt.Errorf("invalid fixtures file: %w", err)
	}

	imported := 0
	for key, fixtures := range weeks {
		week, err := parseWeekKey(key)
		if err != nil {
			logger.Error(0, "parse_week_key", err)
			continue
		}
		for _, f := range fixtures {
			if err := storage.ImportMatch(f.ID, week, f.Home, f.Away, f.Result); err != nil {
				logger.Error(0, "import_match", err)
				continue
			}
			imported++
		}
	}
	return imported, nil
}

// parseWeekKey extracts the week number from a key like "week_12".
func parseWeekKey(key string) (int, error) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return 0, fmt.Errorf("invalid week key %q", key)
	}
	week, err := strconv.Atoi(key[idx+1:])
	if err != nil || week < 1 {
		return 0, fmt.Errorf("invalid week key %q", key)
	}
	return week, nil
}
