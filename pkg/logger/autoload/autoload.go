// Package autoload initialises the global logger from LOG_* on import.
package autoload

import (
	configx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/config"
	logx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
