package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Console message levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage is one line of a render's log as sent to the browser
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// leveledLogger is implemented by parents that can keep the message level,
// such as logger.Logger
type leveledLogger interface {
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// WebLogger tees the log of one render into a console channel and a parent
// logger. Printf logs at info level so it can stand in for core.Logger.
type WebLogger struct {
	renderID string
	parent   core.Logger
	console  chan<- ConsoleMessage
	now      func() time.Time
}

// NewWebLogger creates the logger for one render. parent and console may be nil.
func NewWebLogger(renderID string, parent core.Logger, console chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID: renderID,
		parent:   parent,
		console:  console,
		now:      time.Now,
	}
}

func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.log(LevelInfo, format, args...)
}

func (wl *WebLogger) Warnf(format string, args ...interface{}) {
	wl.log(LevelWarning, format, args...)
}

func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.log(LevelError, format, args...)
}

func (wl *WebLogger) log(level, format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	wl.forward(level, message)

	if wl.console == nil {
		return
	}
	msg := ConsoleMessage{RenderID: wl.renderID, Message: message, Timestamp: wl.now(), Level: level}
	select {
	case wl.console <- msg:
	default:
		// A slow stream drops lines rather than stalling the render
	}
}

// forward passes the message to the parent, keeping its level when the
// parent supports levels
func (wl *WebLogger) forward(level, message string) {
	if wl.parent == nil {
		return
	}
	if leveled, ok := wl.parent.(leveledLogger); ok {
		switch level {
		case LevelWarning:
			leveled.Warnf("[%s] %s", wl.renderID, message)
			return
		case LevelError:
			leveled.Errorf("[%s] %s", wl.renderID, message)
			return
		}
	}
	wl.parent.Printf("[%s] %s", wl.renderID, message)
}
