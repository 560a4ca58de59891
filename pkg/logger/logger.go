// Package logger provides the process-wide structured logger used by every
// component of the horizon planner service.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// Init configures the structured logger. Safe to call once at process
// start; subsequent calls replace the global instance.
func Init(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("invalid LOG_LEVEL, using info")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)
	Logger = log
	return log
}

// Get returns the global logger, initializing a default one if Init was
// never called (useful in tests).
func Get() *logrus.Logger {
	if Logger == nil {
		return Init("info", false)
	}
	return Logger
}

// WithComponent tags log lines with the subsystem that produced them —
// "scoring", "state", "shadow", "costmatrix", "assignment", "horizon".
func WithComponent(component string) *logrus.Entry {
	return Get().WithField("component", component)
}

// WithPlan tags log lines with the plan_horizon call that produced them,
// so every line belonging to one planning run can be grepped together.
func WithPlan(planID string) *logrus.Entry {
	return Get().WithField("plan_id", planID)
}

// WithPlanContext is the composition of WithPlan and WithComponent, mirroring
// the teacher's WithOptimizationContext helper.
func WithPlanContext(planID, component string) *logrus.Entry {
	return Get().WithFields(logrus.Fields{
		"plan_id":   planID,
		"component": component,
	})
}
