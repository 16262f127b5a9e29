package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

// Reader resolves environment variables with defaults. A nil Log is allowed.
type Reader struct {
	Log *logger.Logger
}

func (r Reader) lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if r.Log != nil {
			r.Log.Debug("Environment variable not found, using default", "env_var", key)
		}
		return "", false
	}
	return val, true
}

func (r Reader) String(key, def string) string {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	if r.Log != nil {
		r.Log.Debug("Environment variable found, using environment", "env_var", key, "environment", val)
	}
	return val
}

func (r Reader) Int(key string, def int) int {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		if r.Log != nil {
			r.Log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", val, "defaultVal", def, "error", err)
		}
		return def
	}
	return i
}

func (r Reader) Float(key string, def float64) float64 {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		if r.Log != nil {
			r.Log.Warn("Environment variable could not be parsed as float, using default", "env_var", key, "providedVal", val, "defaultVal", def, "error", err)
		}
		return def
	}
	return f
}

func (r Reader) Bool(key string, def bool) bool {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	if r.Log != nil {
		r.Log.Warn("Environment variable could not be parsed as bool, using default", "env_var", key, "providedVal", val, "defaultVal", def)
	}
	return def
}

// Duration accepts Go duration strings ("90s") or a bare number of seconds.
func (r Reader) Duration(key string, def time.Duration) time.Duration {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if r.Log != nil {
		r.Log.Warn("Environment variable could not be parsed as duration, using default", "env_var", key, "providedVal", val, "defaultVal", def)
	}
	return def
}

// List splits a comma separated value, dropping empty entries.
func (r Reader) List(key string, def []string) []string {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func Int(name string, def int) int {
	return Reader{}.Int(name, def)
}

func String(name, def string) string {
	return Reader{}.String(name, def)
}

// Secret is String without logging the value.
func (r Reader) Secret(key, def string) string {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		return def
	}
	if r.Log != nil {
		r.Log.Debug("Environment variable found, using environment", "env_var", key)
	}
	return val
}
