package configwatcher

import (
	"path/filepath"
	"time"

	"edu_platform_backend/internal/config"
	"edu_platform_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// AlertsReloader receives the fresh alert policy after a config file change.
type AlertsReloader func(config.AlertConfig)

// WatchAlerts watches the config file and pushes reloaded alert thresholds
// to the given reloaders. Editor save patterns fire several events per
// write, so reloads are debounced.
func WatchAlerts(configFile string, reloaders ...AlertsReloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(configFile)
	if err != nil {
		watcher.Close()
		return err
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != absPath || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					alerts, err := config.ReloadAlerts()
					if err != nil {
						logger.Log.Error("config reload failed", zap.Error(err))
						return
					}
					for _, reload := range reloaders {
						reload(alerts)
					}
					logger.Log.Info("alert policy reloaded",
						zap.Int("inactiveDays", alerts.InactiveDays),
						zap.Float64("failingThreshold", alerts.FailingThreshold),
						zap.Int("quizWindow", alerts.QuizWindow),
					)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Error("config watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
