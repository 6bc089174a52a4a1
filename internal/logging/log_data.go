package logging

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData collects the fields of one request so they are written as a single line.
type LogData struct {
	mu        sync.Mutex
	timeItems map[string]int64
	dataItems map[string]interface{}
	logger    *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		timeItems: make(map[string]int64),
		dataItems: make(map[string]interface{}),
		logger:    logger,
	}
}

func (l *LogData) AddTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		timeSince := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timeItems[entryName] = timeSince
	}
}

func (l *LogData) AddToExistingTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		timeSince := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timeItems[entryName] += timeSince
	}
}

func (l *LogData) AddData(key string, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataItems[key] = value
}

func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.dataItems)+len(l.timeItems))
	for key, value := range l.dataItems {
		fields[key] = value
	}
	for key, value := range l.timeItems {
		fields[key] = value
	}
	return logrus.NewEntry(l.logger).WithFields(fields)
}

type logDataKey struct{}

// WithLogData returns a copy of ctx carrying data.
func WithLogData(ctx context.Context, data *LogData) context.Context {
	return context.WithValue(ctx, logDataKey{}, data)
}

// GetLogData returns the request LogData, or nil outside a request.
func GetLogData(ctx context.Context) *LogData {
	data, _ := ctx.Value(logDataKey{}).(*LogData)
	return data
}

// StartTiming records a timing on the request LogData, if any.
func StartTiming(ctx context.Context, entryName string) func() {
	data := GetLogData(ctx)
	if data == nil {
		return func() {}
	}
	return data.AddTiming(entryName)
}

// AddData records a field on the request LogData, if any.
func AddData(ctx context.Context, key string, value interface{}) {
	if data := GetLogData(ctx); data != nil {
		data.AddData(key, value)
	}
}
