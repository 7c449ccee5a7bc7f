// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

package jrpc

import "time"

// The ConfigProvider interface is used to retrieve the configuration of the
// application.
//
// Implementations may support reloading the configuration by watching
// configuration sources for changes. In the event that the configuration is
// reloaded, the implementation must ensure that the pointer address
// returned by the Get method remains the same, but is expected to change the
// object pointed to by the pointer.
//
// Additionally, implementations should ensure that the configuration is
//
//	based off of the DefaultConfig and validated using the validate
//
// information in the Config struct's validate tag.
//
// The ConfigProvider interface is expected to be thread-safe.
//
// The ConfigProvider interface is expected to be used as a singleton.
//
// The ConfigProvider interface is expected to reference the
// [ConfigEnvironmentPrefix] if reading from the environment.
//
// The ConfigProvider interface is expected to use the [ConfigDelimiter] to
// separate keys in the configuration.
//
// The Get method returns the configuration of the application. Multiple calls
// to Get must return same pointer address.
type ConfigProvider interface {
	Get() *Config
}

// Default configuration for the application. ConfigProvider implementations
// should use this configuration as the default configuration.
//
// Values that should not have a default value should not be included.
var DefaultConfig = map[string]interface{}{
	"framing.mode":          FramingDelimiter,
	"framing.delimiter":     "\n",
	"framing.maxFrameBytes": 64 * kibibyte,
	"logging.level":         LogLevelInfo,
	"logging.format":        LogFormatJSON,
	"logging.enabled":       true,
	"tracing.enabled":       true,
	"tracing.batch.timeout": 5,
	"tracing.output":        OtelOutputStdout,
	"metrics.enabled":       false,
	"metrics.interval":      60,
	"metrics.output":        OtelOutputStdout,
	"policy.enabled":        false,
	"policy.path":           "",
	"policy.cache.ttl":      1 * time.Second,
	"policy.cache.cleanup":  500 * time.Millisecond,
	"audit.enabled":         false,
	"audit.queueSize":       256,
	"audit.database.user":   "postgres",
	"audit.database.host":   "localhost",
	"audit.database.port":   5432,
	"audit.database.name":   "postgres",
}

const kibibyte int64 = 1024

// The Config struct is used to store the configuration of the application.
//
// The ConfigProvider interface is used to retrieve the configuration of the
// application from the environment variables, configuration files, and secret
// files.
//
// The validate tag is used to validate the configuration using
// https://github.com/go-playground/validator/v10.
type Config struct {
	Framing FramingConfig `key:"framing" validate:"required"`
	Logging struct {
		Enabled bool      `key:"enabled"`
		Level   LogLevel  `key:"level" validate:"required,oneof=debug info"`
		Format  LogFormat `key:"format" validate:"required,oneof=text json"`
	} `key:"logging"`
	Tracing struct {
		Enabled bool `key:"enabled"`
		Batch   struct {
			Timeout int `key:"timeout"`
		} `key:"batch"`
		Output OtelOutput `key:"output" validate:"required,oneof=stdout http"`
	} `key:"tracing"`
	Metrics struct {
		Enabled  bool       `key:"enabled"`
		Interval int        `key:"interval"`
		Output   OtelOutput `key:"output" validate:"required,oneof=stdout http"`
	} `key:"metrics"`
	Policy PolicyConfig `key:"policy"`
	Audit  AuditConfig  `key:"audit"`
}

// FramingMode selects how the stream codec delimits JSON-RPC frames on a
// byte stream.
type FramingMode string

const (
	FramingDelimiter     FramingMode = "delimiter"
	FramingContentLength FramingMode = "content-length"
)

type FramingConfig struct {
	Mode          FramingMode `key:"mode" validate:"required,oneof=delimiter content-length"`
	Delimiter     string      `key:"delimiter"`
	MaxFrameBytes int64       `key:"maxFrameBytes" validate:"required,min=1"`
}

type CacheConfig struct {
	TTL             time.Duration `key:"ttl" validate:"required,min=1"`
	CleanupInterval time.Duration `key:"cleanup" validate:"required,min=1"`
}

type PolicyConfig struct {
	Enabled bool        `key:"enabled"`
	Path    string      `key:"path"`
	Cache   CacheConfig `key:"cache"`
}

type AuditConfig struct {
	Enabled   bool `key:"enabled"`
	QueueSize int  `key:"queueSize" validate:"min=1"`
	Database  struct {
		User     string `key:"user"`
		Password string `key:"password"`
		Host     string `key:"host"`
		Port     int    `key:"port" validate:"required,min=1,max=65535"`
		Name     string `key:"name"`
	} `key:"database"`
}

// ConfigEnvironmentPrefix is the prefix used to identify the environment
// variables that are used to configure the application.
var ConfigEnvironmentPrefix = "JRPC_"

// ConfigDelimiter is the delimiter used to separate the keys in the
// configuration.
var ConfigDelimiter = "."
