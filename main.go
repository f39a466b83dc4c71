package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"siegebreak/diag"
	"siegebreak/levels"
	"siegebreak/scenario"
	"siegebreak/tuning"
)

func main() {
	levelName := flag.String("level", "gatehouse", "level name in levels/ (basename, .json optional) or a path")
	configPath := flag.String("config", "", "tuning YAML file (defaults apply when empty)")
	scenarioPath := flag.String("scenario", "", "scenario .tengo script (embedded siege.tengo when empty)")
	ticks := flag.Int("ticks", 600, "number of simulation ticks to run")
	diagPath := flag.String("diag", "", "record structural events to this SQLite file")
	watch := flag.Bool("watch", false, "hot-reload the tuning file on change")
	flag.Parse()

	cfg := tuning.Default()
	if *configPath != "" {
		loaded, err := tuning.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		cfg = loaded
	}

	lvl, err := loadLevel(*levelName)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	game, err := NewGame(lvl, &cfg)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	var runner *scenario.Runner
	if *scenarioPath != "" {
		runner, err = scenario.LoadFile(*scenarioPath, game.Artillery())
	} else {
		runner, err = scenario.LoadEmbedded("siege.tengo", game.Artillery())
	}
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	game.SetScenario(runner)

	if *diagPath != "" {
		recorder, err := diag.Open(*diagPath)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Printf("main: close recorder: %v", err)
			}
		}()
		game.SetRecorder(recorder)
	}

	var watcher *tuning.Watcher
	if *watch {
		dirs := watchDirs(*configPath, *scenarioPath)
		if len(dirs) == 0 {
			log.Print("main: -watch needs -config or -scenario pointing at files on disk")
		} else {
			watcher, err = tuning.NewWatcher(tuning.DefaultDebounce, dirs...)
			if err != nil {
				log.Fatalf("main: %v", err)
			}
			defer func() { _ = watcher.Close() }()
		}
	}

	for i := 0; i < *ticks; i++ {
		if watcher != nil {
			drainWatcher(watcher, *configPath, *scenarioPath, &cfg, game)
		}
		if err := game.Update(); err != nil {
			log.Fatalf("main: tick %d: %v", i+1, err)
		}
	}

	log.Printf("main: run complete: %s", game.Summary())
}

func watchDirs(paths ...string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// drainWatcher applies pending tuning and scenario file changes without
// blocking the tick loop. Only threshold-style tuning values take effect
// mid-run; masses and joints already built keep their values. A reloaded
// scenario starts over from tick zero of its own clock.
func drainWatcher(w *tuning.Watcher, configPath, scenarioPath string, cfg *tuning.Config, game *Game) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			switch filepath.Clean(name) {
			case filepath.Clean(configPath):
				loaded, err := tuning.LoadFile(configPath)
				if err != nil {
					log.Printf("main: reload tuning: %v", err)
					continue
				}
				*cfg = loaded
				log.Printf("main: tuning reloaded from %s", configPath)
			case filepath.Clean(scenarioPath):
				runner, err := scenario.LoadFile(scenarioPath, game.Artillery())
				if err != nil {
					log.Printf("main: reload scenario: %v", err)
					continue
				}
				game.SetScenario(runner)
				log.Printf("main: scenario reloaded from %s", scenarioPath)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("main: watcher: %v", err)
		default:
			return
		}
	}
}

func loadLevel(name string) (*levels.Level, error) {
	if strings.ContainsAny(name, `/\`) {
		return levels.LoadFile(name)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return levels.LoadEmbedded(name)
}
