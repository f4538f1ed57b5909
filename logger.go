package discord

import (
	"github.com/oklahomer/go-kasumi/logger"

	"github.com/snorlax2lazy/alliancebot/alliance"
)

// kasumiLogger forwards to whatever logger.SetLogger installed.
type kasumiLogger struct{}

var _ alliance.Logger = kasumiLogger{}

func (kasumiLogger) Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func (kasumiLogger) Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func (kasumiLogger) Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func (kasumiLogger) Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
